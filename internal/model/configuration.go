// Package model implements the configuration persistence layer for the
// machine-control application: the entity graph (machine, package and
// part catalogs, boards, jobs), the identity-keyed registries, the
// canonical-path board cache, and the Configuration facade that loads
// and saves the whole graph as YAML documents.
package model

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/gantry/internal/cachemanager"
	"github.com/zjrosen/gantry/internal/doc"
	"github.com/zjrosen/gantry/internal/log"
	"github.com/zjrosen/gantry/internal/paths"
	"github.com/zjrosen/gantry/internal/registry"
	"github.com/zjrosen/gantry/internal/tracing"
)

// Model errors
var (
	ErrBoardFileNotFound = errors.New("board file not found")
	ErrUnknownPackage    = errors.New("unknown package")
	ErrUnknownPart       = errors.New("unknown part")
)

// Catalog document names inside a configuration directory.
const (
	MachineFile  = "machine.yaml"
	PackagesFile = "packages.yaml"
	PartsFile    = "parts.yaml"
)

// Document roots for the fixed catalog files and for board and job
// documents at caller-supplied paths.
type machineHolder struct {
	Machine machineNode `yaml:"machine"`
}

type packagesHolder struct {
	Packages []*Package `yaml:"packages"`
}

type partsHolder struct {
	Parts []*Part `yaml:"parts"`
}

type boardHolder struct {
	Board *Board `yaml:"board"`
}

type jobHolder struct {
	Job *Job `yaml:"job"`
}

// BoardOutcome reports whether a board lookup found an existing document
// or created one by first reference.
type BoardOutcome int

const (
	BoardFound BoardOutcome = iota
	BoardCreated
)

func (o BoardOutcome) String() string {
	if o == BoardCreated {
		return "created"
	}
	return "found"
}

// Configuration owns the loaded entity graph: the machine, both catalogs,
// and the board cache. It is designed for a single owning goroutine; no
// internal locking is performed.
type Configuration struct {
	packages   *registry.Registry[*Package]
	parts      *registry.Registry[*Part]
	machine    Machine
	boardStore cachemanager.CacheManager[string, *Board]
	boards     *cachemanager.ReadThroughCache[string, *Board, string]
	listeners  *listenerTable
	dirty      bool
	tracer     trace.Tracer
}

// Option configures a Configuration.
type Option func(*Configuration)

// WithTracer instruments the facade's operations with the given tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Configuration) {
		c.tracer = tracer
	}
}

// New creates an empty Configuration with its own registries and board
// cache. Tracing is a no-op unless WithTracer is supplied.
func New(opts ...Option) *Configuration {
	c := &Configuration{
		packages:  registry.New[*Package](),
		parts:     registry.New[*Part](),
		listeners: newListenerTable(),
		tracer:    noop.NewTracerProvider().Tracer("model"),
	}
	c.boardStore = cachemanager.NewInMemoryCacheManager[string, *Board]("boards")
	c.boards = cachemanager.NewReadThroughCache(c.boardStore, c.loadBoard, false)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dirty reports whether the configuration has unsaved changes.
func (c *Configuration) Dirty() bool {
	return c.dirty
}

// SetDirty marks or clears the unsaved-changes flag.
func (c *Configuration) SetDirty(dirty bool) {
	c.dirty = dirty
}

// Machine returns the loaded machine, or nil before Load has run.
func (c *Configuration) Machine() Machine {
	return c.machine
}

// Part looks up a part by identifier, case-insensitively.
func (c *Configuration) Part(id string) (*Part, bool) {
	return c.parts.Get(id)
}

// Package looks up a package by identifier, case-insensitively.
func (c *Configuration) Package(id string) (*Package, bool) {
	return c.packages.Get(id)
}

// Parts returns the part catalog in insertion order.
func (c *Configuration) Parts() []*Part {
	return c.parts.Values()
}

// Packages returns the package catalog in insertion order.
func (c *Configuration) Packages() []*Package {
	return c.packages.Values()
}

// AddPart inserts the part into the catalog, replacing any part whose
// identifier matches case-insensitively, and marks the configuration
// dirty.
func (c *Configuration) AddPart(part *Part) error {
	if err := c.parts.Put(part); err != nil {
		return err
	}
	c.dirty = true
	log.Debug(log.CatModel, "part added", "id", part.ID)
	return nil
}

// AddPackage inserts the package into the catalog, replacing any package
// whose identifier matches case-insensitively, and marks the
// configuration dirty.
func (c *Configuration) AddPackage(pkg *Package) error {
	if err := c.packages.Put(pkg); err != nil {
		return err
	}
	c.dirty = true
	log.Debug(log.CatModel, "package added", "id", pkg.ID)
	return nil
}

// RenamePart re-keys a part under a new identifier and marks the
// configuration dirty. The part keeps its position in catalog order.
func (c *Configuration) RenamePart(oldID, newID string) error {
	if err := c.parts.Rename(oldID, newID); err != nil {
		return err
	}
	c.dirty = true
	log.Debug(log.CatModel, "part renamed", "old", oldID, "new", newID)
	return nil
}

// AddListener registers a load listener and returns a handle for
// removal. Listeners run synchronously on the loading goroutine, in
// registration order.
func (c *Configuration) AddListener(fn LoadListener) uuid.UUID {
	return c.listeners.add(fn)
}

// RemoveListener removes a previously registered load listener.
func (c *Configuration) RemoveListener(handle uuid.UUID) bool {
	return c.listeners.remove(handle)
}

// BoardCount reports how many boards the cache currently holds.
func (c *Configuration) BoardCount(ctx context.Context) int {
	return c.boardStore.Count(ctx)
}

// Load reads the machine document, then the package catalog, then the
// part catalog from dir, in that fixed order: parts reference packages,
// so packages must be resolvable first. Machines that require resolution
// receive the callback once all three documents are loaded. On success
// the dirty flag is cleared and every load listener is notified exactly
// once; listener failures are isolated and returned as an aggregate
// after the load itself has completed.
func (c *Configuration) Load(ctx context.Context, dir string) error {
	_, span := c.tracer.Start(ctx, tracing.SpanLoad,
		trace.WithAttributes(attribute.String(tracing.AttrConfigDir, dir)))
	defer span.End()

	if err := c.loadMachine(filepath.Join(dir, MachineFile)); err != nil {
		return spanError(span, err)
	}
	if err := c.loadPackages(filepath.Join(dir, PackagesFile)); err != nil {
		return spanError(span, err)
	}
	if err := c.loadParts(filepath.Join(dir, PartsFile)); err != nil {
		return spanError(span, err)
	}

	if c.machine.RequiresResolution() {
		if err := c.machine.ResolveConfiguration(c); err != nil {
			return spanError(span, err)
		}
	}

	c.dirty = false
	span.SetAttributes(
		attribute.String(tracing.AttrMachineName, c.machine.Type()),
		attribute.Int(tracing.AttrPackageCount, c.packages.Len()),
		attribute.Int(tracing.AttrPartCount, c.parts.Len()),
	)
	log.Info(log.CatModel, "configuration loaded", "dir", dir,
		"machine", c.machine.Type(), "packages", c.packages.Len(), "parts", c.parts.Len())

	if err := c.listeners.notify(c); err != nil {
		return spanError(span, err)
	}
	return nil
}

// Save persists the machine document, the package catalog, and the part
// catalog to dir, in the same order Load reads them, then clears the
// dirty flag.
func (c *Configuration) Save(ctx context.Context, dir string) error {
	_, span := c.tracer.Start(ctx, tracing.SpanSave,
		trace.WithAttributes(attribute.String(tracing.AttrConfigDir, dir)))
	defer span.End()

	if c.machine == nil {
		return spanError(span, fmt.Errorf("no machine loaded"))
	}
	if err := doc.Write(filepath.Join(dir, MachineFile), machineHolder{
		Machine: machineNode{Machine: c.machine},
	}); err != nil {
		return spanError(span, err)
	}
	if err := doc.Write(filepath.Join(dir, PackagesFile), packagesHolder{
		Packages: c.packages.Values(),
	}); err != nil {
		return spanError(span, err)
	}
	if err := doc.Write(filepath.Join(dir, PartsFile), partsHolder{
		Parts: c.parts.Values(),
	}); err != nil {
		return spanError(span, err)
	}

	c.dirty = false
	log.Info(log.CatModel, "configuration saved", "dir", dir)
	return nil
}

// Board returns the board for file, loading it at most once per process.
// A file that does not exist yet is created as an empty board document
// named after the file's base name; the outcome reports whether that
// happened. The returned board is the cache's instance: callers looking
// up the same file again, under any spelling that canonicalizes to the
// same path, receive the identical Board.
func (c *Configuration) Board(ctx context.Context, file string) (*Board, BoardOutcome, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanBoard,
		trace.WithAttributes(attribute.String(tracing.AttrFilePath, file)))
	defer span.End()

	outcome := BoardFound
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		board := &Board{Name: filepath.Base(file)}
		if err := doc.Write(file, boardHolder{Board: board}); err != nil {
			return nil, BoardFound, spanError(span, err)
		}
		outcome = BoardCreated
		log.Info(log.CatDoc, "created empty board document", "path", file, "name", board.Name)
	} else if err != nil {
		return nil, BoardFound, spanError(span, fmt.Errorf("stat board file %s: %w", file, err))
	}

	canonical, err := paths.Canonical(file)
	if err != nil {
		return nil, outcome, spanError(span, fmt.Errorf("canonicalize %s: %w", file, err))
	}
	span.SetAttributes(
		attribute.String(tracing.AttrCanonicalPath, canonical),
		attribute.String(tracing.AttrBoardOutcome, outcome.String()),
	)

	board, err := c.boards.GetOrLoad(ctx, canonical, canonical)
	if err != nil {
		return nil, outcome, spanError(span, err)
	}
	return board, outcome, nil
}

// LoadJob reads a job document and resolves every board location against
// the board cache. Each stored board-file string is tried as an absolute
// or working-directory-relative path first, then relative to the job
// file's directory; a board that resolves in neither place fails the
// whole load with ErrBoardFileNotFound naming the stored string. The
// returned job has its dirty flag cleared.
func (c *Configuration) LoadJob(ctx context.Context, file string) (*Job, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanLoadJob,
		trace.WithAttributes(attribute.String(tracing.AttrFilePath, file)))
	defer span.End()

	var holder jobHolder
	if err := doc.Read(file, &holder); err != nil {
		return nil, spanError(span, err)
	}
	job := holder.Job
	if job == nil {
		return nil, spanError(span, fmt.Errorf("job document %s has no job", file))
	}
	job.file = file

	for _, location := range job.BoardLocations {
		boardFile := location.BoardFile
		resolved := boardFile
		if !fileExists(resolved) {
			resolved = filepath.Join(filepath.Dir(file), boardFile)
		}
		if !fileExists(resolved) {
			return nil, spanError(span, fmt.Errorf("%w: %s", ErrBoardFileNotFound, boardFile))
		}
		board, _, err := c.Board(ctx, resolved)
		if err != nil {
			return nil, spanError(span, err)
		}
		location.board = board
	}

	job.dirty = false
	span.SetAttributes(attribute.Int(tracing.AttrLocationCount, len(job.BoardLocations)))
	log.Info(log.CatJob, "job loaded", "path", file, "locations", len(job.BoardLocations))
	return job, nil
}

// SaveJob persists the job to file. Every board location's stored path
// is rewritten relative to file's directory when a relative path exists,
// falling back to the board's absolute path otherwise. The distinct set
// of referenced boards is saved first, then the job document itself; the
// job's source path is updated and its dirty flag cleared.
func (c *Configuration) SaveJob(ctx context.Context, job *Job, file string) error {
	_, span := c.tracer.Start(ctx, tracing.SpanSaveJob,
		trace.WithAttributes(attribute.String(tracing.AttrFilePath, file)))
	defer span.End()

	base, err := filepath.Abs(file)
	if err != nil {
		return spanError(span, fmt.Errorf("absolute path for %s: %w", file, err))
	}

	boards := mapset.NewSet[*Board]()
	for _, location := range job.BoardLocations {
		board := location.Board()
		if board == nil {
			return spanError(span, fmt.Errorf("board location %s has no resolved board", location.BoardFile))
		}
		boards.Add(board)

		relative, err := paths.Relativize(board.File(), base, string(filepath.Separator))
		if errors.Is(err, paths.ErrNoRelativePath) {
			log.Warn(log.CatJob, "no relative path for board, storing absolute", "board", board.File())
			location.BoardFile = board.File()
			continue
		}
		if err != nil {
			return spanError(span, err)
		}
		log.Debug(log.CatJob, "relative path computed", "board", board.File(), "relative", relative)
		location.BoardFile = relative
	}

	for _, board := range boards.ToSlice() {
		if err := doc.Write(board.File(), boardHolder{Board: board}); err != nil {
			return spanError(span, err)
		}
	}
	if err := doc.Write(file, jobHolder{Job: job}); err != nil {
		return spanError(span, err)
	}

	job.file = file
	job.dirty = false
	span.SetAttributes(
		attribute.Int(tracing.AttrLocationCount, len(job.BoardLocations)),
		attribute.Int(tracing.AttrBoardCount, boards.Cardinality()),
	)
	log.Info(log.CatJob, "job saved", "path", file,
		"locations", len(job.BoardLocations), "boards", boards.Cardinality())
	return nil
}

func (c *Configuration) loadMachine(path string) error {
	var holder machineHolder
	if err := doc.Read(path, &holder); err != nil {
		return err
	}
	if holder.Machine.Machine == nil {
		return fmt.Errorf("machine document %s has no machine", path)
	}
	c.machine = holder.Machine.Machine
	log.Debug(log.CatModel, "machine loaded", "type", c.machine.Type())
	return nil
}

func (c *Configuration) loadPackages(path string) error {
	var holder packagesHolder
	if err := doc.Read(path, &holder); err != nil {
		return err
	}
	for _, pkg := range holder.Packages {
		if err := c.packages.Put(pkg); err != nil {
			return fmt.Errorf("package catalog %s: %w", path, err)
		}
	}
	log.Debug(log.CatModel, "packages loaded", "count", len(holder.Packages))
	return nil
}

func (c *Configuration) loadParts(path string) error {
	var holder partsHolder
	if err := doc.Read(path, &holder); err != nil {
		return err
	}
	for _, part := range holder.Parts {
		if part == nil {
			return fmt.Errorf("part catalog %s: %w", path, registry.ErrNilEntity)
		}
		if err := part.Resolve(c); err != nil {
			return err
		}
		if err := c.parts.Put(part); err != nil {
			return fmt.Errorf("part catalog %s: %w", path, err)
		}
	}
	log.Debug(log.CatModel, "parts loaded", "count", len(holder.Parts))
	return nil
}

// loadBoard is the board cache's loader: it runs once per canonical path
// and its result is the cache's owned instance.
func (c *Configuration) loadBoard(ctx context.Context, path string) (*Board, error) {
	var holder boardHolder
	if err := doc.Read(path, &holder); err != nil {
		return nil, err
	}
	board := holder.Board
	if board == nil {
		return nil, fmt.Errorf("board document %s has no board", path)
	}
	if err := board.Resolve(c); err != nil {
		return nil, err
	}
	board.file = path
	log.Debug(log.CatModel, "board loaded", "path", path)
	return board, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
