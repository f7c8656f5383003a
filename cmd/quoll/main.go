package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/quoll3d/quoll/asset"
	"github.com/quoll3d/quoll/core"
	"github.com/quoll3d/quoll/importer"
	"github.com/quoll3d/quoll/utility/qar"
)

var configuration = core.ConfigFromEnv()

func main() {
	if configuration.Importer.ArchivePath == "" {
		log.Fatal("QUOLL_ARCHIVE is not set, nothing to import")
	}

	archive, err := qar.OpenFile(configuration.Importer.ArchivePath)
	if err != nil {
		log.WithError(err).Fatal("could not open resource archive")
	}
	defer archive.Close()

	queue := core.NewTaskQueue()
	registry := asset.Default()
	imp := importer.New(queue, registry, configuration.Importer)

	for _, entry := range archive.Index() {
		handle := imp.Import(importer.ArchiveSource{
			Archive: archive,
			Name:    entry.Name,
		})
		log.WithFields(log.Fields{
			"entry": entry.Name,
			"task":  handle,
		}).Info("import queued")
	}

	tm := core.NewTime(configuration.Time)
	defer tm.Stop()

	ctx := context.Background()
	var loaded int
	for range tm.FpsTicker().C {
		for _, handle := range imp.Tick(ctx) {
			loaded++
			reference, _ := registry.ReferenceOf(handle)
			log.WithFields(log.Fields{
				"handle":    handle,
				"reference": reference,
			}).Info("asset ready")
		}
		if imp.Pending() == 0 {
			break
		}
	}

	log.WithField("loaded", loaded).Info("archive drained")
	os.Exit(0)
}
