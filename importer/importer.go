// Package importer runs model imports off the interactive path.
// Sources are queued on a core.TaskQueue, started in bulk by the
// frame loop and registered into the asset registry as they finish.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/quoll3d/quoll/asset"
	"github.com/quoll3d/quoll/core"
	"github.com/quoll3d/quoll/model"
)

// package errors
var (
	ErrPending  = errors.New("import has not completed yet")
	ErrNoSource = errors.New("pending model has neither path nor bytes")
)

// DecodeFunc turns raw payload bytes into a model. Decoding foreign
// file formats is a collaborator concern, the importer only ships a
// decoder for cooked archive payloads.
type DecodeFunc func(data []byte, label string) (*model.Model, error)

// Source supplies one model to the importer. Load may block, it runs
// inside a queued computation and never on the caller of Import.
type Source interface {

	// ID identifies the source for logging and deduplication.
	ID() string

	// Load produces the model.
	Load(ctx context.Context) (*model.Model, error)
}

// Result is the payload every import computation resolves to. A
// failed load travels inside Err, the task queue never learns about
// it.
type Result struct {
	Model *model.Model
	Err   error
}

// PendingModel is a Source fed from a file path or an in-memory
// buffer. A nil Decode falls back to the cooked model decoder.
type PendingModel struct {
	Path   string
	Bytes  []byte
	Label  string
	Decode DecodeFunc
}

// ID implements Source
func (p PendingModel) ID() string {
	if p.Path != "" {
		return fmt.Sprintf("%s_file", p.Label)
	}
	return fmt.Sprintf("%s_memory", p.Label)
}

// Load implements Source
func (p PendingModel) Load(ctx context.Context) (*model.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := p.Bytes
	reference := fmt.Sprintf("bytes://%s", p.Label)
	if p.Path != "" {
		read, err := os.ReadFile(p.Path)
		if err != nil {
			return nil, fmt.Errorf("reading pending model %s: %w", p.Label, err)
		}
		data = read
		reference = fmt.Sprintf("file://%s", p.Path)
	} else if data == nil {
		return nil, ErrNoSource
	}

	decode := p.Decode
	if decode == nil {
		decode = func(data []byte, _ string) (*model.Model, error) {
			return model.Decode(data)
		}
	}
	m, err := decode(data, p.Label)
	if err != nil {
		return nil, fmt.Errorf("decoding pending model %s: %w", p.Label, err)
	}

	if m.Label == "" {
		m.Label = p.Label
	}
	if m.ContentID == 0 {
		m.ContentID = model.ContentIDFor(m.Label)
	}
	if m.Reference == "" {
		m.Reference = reference
	}
	return m, nil
}

// Importer ties the task queue and the asset registry together. Any
// number of goroutines may queue imports, one owner is expected to
// drive Tick once per frame.
type Importer struct {
	queue    *core.TaskQueue
	registry *asset.Registry
	fallback bool

	mutex   sync.Mutex
	pending map[core.TaskHandle]string
}

// New creates an Importer on top of the given queue and registry.
func New(queue *core.TaskQueue, registry *asset.Registry, cfg core.ImporterConfiguration) *Importer {
	return &Importer{
		queue:    queue,
		registry: registry,
		fallback: cfg.FallbackMaterial,
		pending:  make(map[core.TaskHandle]string),
	}
}

// Import queues a source for loading and returns the task handle
// immediately. Nothing runs until the next Tick or Poll.
func (imp *Importer) Import(src Source) core.TaskHandle {
	handle := imp.queue.Push(func(ctx context.Context) interface{} {
		start := time.Now()
		m, err := src.Load(ctx)
		if err != nil {
			log.WithError(err).WithField("source", src.ID()).Error("model import failed")
			return Result{Err: err}
		}
		if imp.fallback && len(m.Materials) == 0 {
			if mat, err := model.FallbackMaterial(); err == nil {
				m.Materials = append(m.Materials, mat)
			}
		}
		log.WithFields(log.Fields{
			"source":   src.ID(),
			"duration": time.Since(start),
		}).Debug("model import finished")
		return Result{Model: m}
	})

	imp.mutex.Lock()
	imp.pending[handle] = src.ID()
	imp.mutex.Unlock()
	return handle
}

// Collect exchanges a finished import and registers the model. It
// never blocks: ErrPending means the computation has not completed,
// any other error is the load failure carried by the result payload.
// A successful collect returns the registry handle of the model.
func (imp *Importer) Collect(handle core.TaskHandle) (asset.Handle, error) {
	result, ok := core.ExchangeAs[Result](imp.queue, handle)
	if !ok {
		return asset.NilHandle, ErrPending
	}

	imp.mutex.Lock()
	delete(imp.pending, handle)
	imp.mutex.Unlock()

	if result.Err != nil {
		return asset.NilHandle, result.Err
	}

	registered := imp.registry.RegisterModel(result.Model.Reference, result.Model)
	log.WithFields(log.Fields{
		"label":     result.Model.Label,
		"reference": result.Model.Reference,
		"handle":    registered,
	}).Info("model registered")
	return registered, nil
}

// Tick is the frame hook. It starts everything queued since the last
// frame, collects whatever finished and cleans completed tasks out of
// the queue. Returns the registry handles of models that became ready
// this frame.
func (imp *Importer) Tick(ctx context.Context) []asset.Handle {
	imp.queue.Poll(ctx)

	imp.mutex.Lock()
	outstanding := make([]core.TaskHandle, 0, len(imp.pending))
	for handle := range imp.pending {
		outstanding = append(outstanding, handle)
	}
	imp.mutex.Unlock()

	var ready []asset.Handle
	for _, handle := range outstanding {
		registered, err := imp.Collect(handle)
		if err == nil {
			ready = append(ready, registered)
		}
		// Failed imports were logged on the loader goroutine and
		// are dropped here, ErrPending entries stay for next frame.
	}

	imp.queue.Cleanup()
	return ready
}

// Pending returns the number of imports not yet collected.
func (imp *Importer) Pending() int {
	imp.mutex.Lock()
	defer imp.mutex.Unlock()
	return len(imp.pending)
}
