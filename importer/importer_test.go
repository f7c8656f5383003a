package importer_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/quoll3d/quoll/asset"
	"github.com/quoll3d/quoll/core"
	"github.com/quoll3d/quoll/importer"
	"github.com/quoll3d/quoll/model"
	"github.com/quoll3d/quoll/utility/qar"
)

func cookedModel(t *testing.T, label string, withMaterial bool) []byte {
	t.Helper()
	m := model.New(label)
	m.Meshes = append(m.Meshes, &model.Mesh{Name: "Body"})
	if withMaterial {
		m.Materials = append(m.Materials, &model.Material{Name: "Brass"})
	}
	data, err := model.Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// tickUntilDrained drives the importer's frame hook until every
// pending import has been collected or the deadline passes.
func tickUntilDrained(t *testing.T, imp *importer.Importer) []asset.Handle {
	t.Helper()
	ctx := context.Background()
	deadline := time.Now().Add(2 * time.Second)
	var ready []asset.Handle
	for imp.Pending() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("%d imports still pending", imp.Pending())
		}
		ready = append(ready, imp.Tick(ctx)...)
		time.Sleep(time.Millisecond)
	}
	return ready
}

func newImporter(fallback bool) (*importer.Importer, *asset.Registry) {
	registry := asset.NewRegistry()
	imp := importer.New(core.NewTaskQueue(), registry, core.ImporterConfiguration{
		FallbackMaterial: fallback,
	})
	return imp, registry
}

func TestImportFromMemory(t *testing.T) {
	c := qt.New(t)
	imp, registry := newImporter(false)

	handle := imp.Import(importer.PendingModel{
		Bytes: cookedModel(t, "lamp", true),
		Label: "lamp",
	})
	c.Assert(imp.Pending(), qt.Equals, 1)

	ready := tickUntilDrained(t, imp)
	c.Assert(ready, qt.HasLen, 1)

	m, ok := registry.Model(ready[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(m.Label, qt.Equals, "lamp")
	c.Assert(m.Reference, qt.Equals, "bytes://lamp")

	byRef, ok := registry.HandleFor("bytes://lamp")
	c.Assert(ok, qt.IsTrue)
	c.Assert(byRef, qt.Equals, ready[0])

	_, ok = registry.DerivedHandle(m.ContentID, "Body")
	c.Assert(ok, qt.IsTrue)
	_, ok = registry.DerivedHandle(m.ContentID, "Brass")
	c.Assert(ok, qt.IsTrue)

	// The task itself is collected and cleaned up.
	_, err := imp.Collect(handle)
	c.Assert(err, qt.Equals, importer.ErrPending)
}

func TestImportAppliesFallbackMaterial(t *testing.T) {
	c := qt.New(t)
	imp, registry := newImporter(true)

	imp.Import(importer.PendingModel{
		Bytes: cookedModel(t, "bare", false),
		Label: "bare",
	})
	ready := tickUntilDrained(t, imp)
	c.Assert(ready, qt.HasLen, 1)

	m, ok := registry.Model(ready[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(m.Materials, qt.HasLen, 1)
	c.Assert(m.Materials[0].Name, qt.Equals, "fallback")
}

func TestImportFailureStaysInPayload(t *testing.T) {
	c := qt.New(t)
	queue := core.NewTaskQueue()
	imp := importer.New(queue, asset.NewRegistry(), core.ImporterConfiguration{})

	handle := imp.Import(importer.PendingModel{Label: "empty"})
	queue.Poll(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, err := imp.Collect(handle)
		if err == importer.ErrPending {
			if time.Now().After(deadline) {
				t.Fatal("import never resolved")
			}
			time.Sleep(time.Millisecond)
			continue
		}
		c.Assert(err, qt.ErrorIs, importer.ErrNoSource)
		break
	}
	c.Assert(imp.Pending(), qt.Equals, 0)
}

func TestImportFromArchive(t *testing.T) {
	c := qt.New(t)

	builder, err := qar.NewBuilder(qar.Header{Author: "quoll3d", Version: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(builder.Add("models/crate", cookedModel(t, "crate", true)), qt.IsNil)

	buf := bytes.NewBuffer([]byte{})
	_, err = builder.WriteTo(buf)
	c.Assert(err, qt.IsNil)

	archive, err := qar.Open(bytes.NewReader(buf.Bytes()))
	c.Assert(err, qt.IsNil)

	imp, registry := newImporter(false)
	imp.Import(importer.ArchiveSource{
		Archive: archive,
		Name:    "models/crate",
	})
	ready := tickUntilDrained(t, imp)
	c.Assert(ready, qt.HasLen, 1)

	m, ok := registry.Model(ready[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(m.Label, qt.Equals, "crate")
	c.Assert(m.Reference, qt.Equals, "qar://models/crate")

	resolved, ok := registry.ResolveHandle("qar://models/crate")
	c.Assert(ok, qt.IsTrue)
	c.Assert(resolved, qt.Equals, ready[0])
}
