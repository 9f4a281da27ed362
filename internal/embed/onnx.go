package embed

import (
	"fmt"
	"context"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ONNX local-embedder defaults. The shared library is expected to expose a
// small, flat C ABI (embed_open/embed_dims/embed_run/embed_close) around
// whatever ONNX Runtime session it wraps internally; this package only ever
// talks to those four symbols.
const (
	DefaultONNXLibraryPath = "libtdpembed.so"
	DefaultONNXDimensions  = 768
)

type (
	onnxOpenFunc  func(modelPath string) uintptr
	onnxDimsFunc  func(handle uintptr) int32
	onnxRunFunc   func(handle uintptr, text string, out *float32, outLen int32) int32
	onnxCloseFunc func(handle uintptr)
)

// ONNXConfig configures the local-ONNX-style embedder.
type ONNXConfig struct {
	// LibraryPath is the path to the shared library implementing the
	// embed_* C ABI.
	LibraryPath string

	// ModelPath is the ONNX model file passed to embed_open.
	ModelPath string

	// SkipHealthCheck skips the startup probe embedding call (for testing).
	SkipHealthCheck bool
}

// DefaultONNXConfig returns sensible defaults.
func DefaultONNXConfig() ONNXConfig {
	return ONNXConfig{LibraryPath: DefaultONNXLibraryPath}
}

// ONNXEmbedder generates embeddings by FFI-calling into a locally loaded
// ONNX Runtime shared library, avoiding any network dependency.
type ONNXEmbedder struct {
	lib    uintptr
	handle uintptr
	dims   int
	model  string

	open  onnxOpenFunc
	run   onnxRunFunc
	close onnxCloseFunc

	mu           sync.RWMutex
	closed       bool
	batchIndex   int
	isFinalBatch bool
}

var _ Embedder = (*ONNXEmbedder)(nil)

// NewONNXEmbedder loads the shared library, opens a session against
// cfg.ModelPath, and detects the embedding dimension.
func NewONNXEmbedder(ctx context.Context, cfg ONNXConfig) (*ONNXEmbedder, error) {
	if cfg.LibraryPath == "" {
		cfg.LibraryPath = DefaultONNXLibraryPath
	}

	lib, err := purego.Dlopen(cfg.LibraryPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("load onnx embedding library %q: %w", cfg.LibraryPath, err)
	}

	var open onnxOpenFunc
	var dimsFn onnxDimsFunc
	var run onnxRunFunc
	var closeFn onnxCloseFunc
	purego.RegisterLibFunc(&open, lib, "embed_open")
	purego.RegisterLibFunc(&dimsFn, lib, "embed_dims")
	purego.RegisterLibFunc(&run, lib, "embed_run")
	purego.RegisterLibFunc(&closeFn, lib, "embed_close")

	handle := open(cfg.ModelPath)
	if handle == 0 {
		_ = purego.Dlclose(lib)
		return nil, fmt.Errorf("embed_open(%q) failed", cfg.ModelPath)
	}

	e := &ONNXEmbedder{
		lib:    lib,
		handle: handle,
		dims:   int(dimsFn(handle)),
		model:  cfg.ModelPath,
		open:   open,
		run:    run,
		close:  closeFn,
	}
	if e.dims == 0 {
		e.dims = DefaultONNXDimensions
	}

	if !cfg.SkipHealthCheck {
		if _, err := e.embedOne(ctx, "dimension detection"); err != nil {
			_ = e.Close()
			return nil, fmt.Errorf("onnx embedder health check failed: %w", err)
		}
	}

	return e, nil
}

// Embed generates an embedding for a single text.
func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, fmt.Errorf("embedder is closed")
	}
	e.mu.RUnlock()

	if strings.TrimSpace(text) == "" {
		return make([]float32, e.dims), nil
	}
	return e.embedOne(ctx, text)
}

// EmbedBatch generates embeddings for multiple texts. The shim ABI embeds
// one text per call; batching here is sequential, same as single Embed
// calls looped, since the local runtime has no network latency to amortise.
func (e *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, fmt.Errorf("embedder is closed")
	}
	e.mu.RUnlock()

	results := make([][]float32, len(texts))
	for i, text := range texts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if strings.TrimSpace(text) == "" {
			results[i] = make([]float32, e.dims)
			continue
		}
		emb, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		results[i] = emb
	}
	return results, nil
}

func (e *ONNXEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	out := make([]float32, e.dims)
	rc := e.run(e.handle, text, (*float32)(unsafe.Pointer(&out[0])), int32(e.dims))
	if rc != 0 {
		return nil, fmt.Errorf("embed_run returned code %d", rc)
	}
	return normalizeVector(out), nil
}

// Dimensions returns the embedding dimension.
func (e *ONNXEmbedder) Dimensions() int { return e.dims }

// ModelName returns the loaded model path.
func (e *ONNXEmbedder) ModelName() string { return e.model }

// Available reports whether the session handle is still open.
func (e *ONNXEmbedder) Available(ctx context.Context) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return !e.closed && e.handle != 0
}

// Close releases the ONNX session and unloads the shared library.
func (e *ONNXEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.handle != 0 {
		e.close(e.handle)
	}
	return purego.Dlclose(e.lib)
}

// SetBatchIndex sets the batch index. The local ONNX embedder has no
// network-latency-driven timeout progression to track it for, but
// implements Embedder uniformly.
func (e *ONNXEmbedder) SetBatchIndex(idx int) {
	e.mu.Lock()
	e.batchIndex = idx
	e.mu.Unlock()
}

// SetFinalBatch is a no-op for this embedder; kept to satisfy Embedder.
func (e *ONNXEmbedder) SetFinalBatch(isFinal bool) {
	e.mu.Lock()
	e.isFinalBatch = isFinal
	e.mu.Unlock()
}
