package api

import (
	"github.com/mkarlsen/casefile/internal/analysis"
	"github.com/mkarlsen/casefile/internal/audit"
	"github.com/mkarlsen/casefile/internal/files"
	"github.com/mkarlsen/casefile/internal/folders"
	"github.com/mkarlsen/casefile/internal/generation"
	"github.com/mkarlsen/casefile/internal/notes"
	"github.com/mkarlsen/casefile/internal/profiles"
	"github.com/mkarlsen/casefile/internal/reports"
	"github.com/mkarlsen/casefile/internal/templates"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Audit      audit.System
	Files      files.System
	Folders    folders.System
	Profiles   profiles.System
	Notes      notes.System
	Templates  templates.System
	Reports    reports.System
	Generation generation.System
	Analysis   analysis.System
}

// NewDomain creates all domain systems from the API runtime. The audit
// system comes first so every other system can record against it; the
// folder system receives the file system for its cascade delete.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	auditSystem := audit.New(db, runtime.Logger, runtime.Pagination)

	fileSystem := files.New(
		db,
		runtime.Storage,
		auditSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	folderSystem := folders.New(
		db,
		fileSystem,
		runtime.Storage,
		auditSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	profileSystem := profiles.New(db, auditSystem, runtime.Logger, runtime.Pagination)
	noteSystem := notes.New(db, auditSystem, runtime.Logger, runtime.Pagination)
	templateSystem := templates.New(db, auditSystem, runtime.Logger, runtime.Pagination)
	reportSystem := reports.New(db, auditSystem, runtime.Logger, runtime.Pagination)

	generationSystem := generation.New(
		generation.NewGenerator(runtime.Config.Generator, runtime.Logger),
		templateSystem,
		fileSystem,
		profileSystem,
		noteSystem,
		reportSystem,
		runtime.Logger,
	)

	analysisSystem := analysis.New(
		analysis.NewAnalyzer(runtime.Config.Analysis, runtime.Logger),
		fileSystem,
		profileSystem,
		runtime.Logger,
	)

	return &Domain{
		Audit:      auditSystem,
		Files:      fileSystem,
		Folders:    folderSystem,
		Profiles:   profileSystem,
		Notes:      noteSystem,
		Templates:  templateSystem,
		Reports:    reportSystem,
		Generation: generationSystem,
		Analysis:   analysisSystem,
	}
}
