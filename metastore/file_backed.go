package metastore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/petrel-search/petrel/blobstore"
	"github.com/petrel-search/petrel/model"
	"github.com/petrel-search/petrel/template"
	"golang.org/x/sync/errgroup"
)

const (
	maxConcurrentMetadataLoads = 10
	refreshTimeout             = 30 * time.Second
)

// FileBacked is a complete metastore facade over a single blob store. It
// owns the single-writer discipline the manifest persistence layer assumes:
// every mutation runs under an internal mutex and, when configured with a
// lock.Locker, under a cross-process guard as well.
//
// Reads are served from the manifest held in memory; per-index metadata is
// read from storage on demand.
type FileBacked struct {
	store blobstore.Store
	opts  options

	mu       sync.RWMutex
	manifest *Manifest

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Open loads or creates the store's manifest and returns a ready facade.
func Open(ctx context.Context, store blobstore.Store, optFns ...Option) (*FileBacked, error) {
	o := defaultOptions(optFns...)

	manifest, err := loadOrCreateManifest(ctx, store, o)
	if err != nil {
		return nil, err
	}

	m := &FileBacked{
		store:    store,
		opts:     o,
		manifest: manifest,
		done:     make(chan struct{}),
	}

	if o.pollingInterval > 0 {
		m.wg.Add(1)
		go m.poll(o.pollingInterval)
	}

	return m, nil
}

// Close stops the polling goroutine, if any. The facade must not be used
// afterwards.
func (m *FileBacked) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	m.wg.Wait()

	return nil
}

// Manifest returns a deep copy of the in-memory manifest.
func (m *FileBacked) Manifest() *Manifest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.manifest.Clone()
}

// CreateIndex registers a new index and writes its metadata file. Creation
// is two-phase: the index is staged as Creating, its metadata file written,
// then flipped to Active. An interrupted creation leaves a Creating entry
// behind, which a later CreateIndex of the same ID takes over.
func (m *FileBacked) CreateIndex(ctx context.Context, indexID string) (metadata *IndexMetadata, err error) {
	start := time.Now()
	defer func() { m.opts.metrics.RecordIndexOperation("create", time.Since(start), err) }()

	if err := model.ValidateIndexID(indexID); err != nil {
		return nil, err
	}

	release, err := m.opts.locker.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	m.mu.Lock()
	defer m.mu.Unlock()

	if status, found := m.manifest.Indexes[indexID]; found && status != IndexStatusCreating {
		return nil, &AlreadyExistsError{Kind: "index", ID: indexID}
	}

	if err := m.setIndexStatus(ctx, indexID, IndexStatusCreating); err != nil {
		return nil, err
	}

	metadata = &IndexMetadata{
		IndexUID:        model.NewIndexUID(indexID),
		CreateTimestamp: time.Now().Unix(),
	}

	if err := saveIndexMetadata(ctx, m.store, metadata, m.opts); err != nil {
		return nil, err
	}

	// The index becomes visible only once its metadata file is in place.
	if err := m.setIndexStatus(ctx, indexID, IndexStatusActive); err != nil {
		return nil, err
	}

	return metadata, nil
}

// DeleteIndex removes an index: mark Deleting, delete the metadata file,
// drop the manifest entry. A retry after an interruption completes the
// removal; the Deleting marker keeps the index invisible in the meantime.
func (m *FileBacked) DeleteIndex(ctx context.Context, indexID string) (err error) {
	start := time.Now()
	defer func() { m.opts.metrics.RecordIndexOperation("delete", time.Since(start), err) }()

	release, err := m.opts.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer release()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, found := m.manifest.Indexes[indexID]; !found {
		return &NotFoundError{Kind: "index", ID: indexID}
	}

	if err := m.setIndexStatus(ctx, indexID, IndexStatusDeleting); err != nil {
		return err
	}

	if err := deleteIndexMetadata(ctx, m.store, indexID); err != nil {
		return err
	}

	staged := m.manifest.Clone()
	delete(staged.Indexes, indexID)

	if err := saveManifest(ctx, m.store, staged, m.opts); err != nil {
		return err
	}

	m.manifest = staged

	return nil
}

// IndexMetadata returns the metadata of an Active index. Indexes still being
// created or already being deleted are not visible.
func (m *FileBacked) IndexMetadata(ctx context.Context, indexID string) (metadata *IndexMetadata, err error) {
	start := time.Now()
	defer func() { m.opts.metrics.RecordIndexOperation("load_metadata", time.Since(start), err) }()

	m.mu.RLock()
	status, found := m.manifest.Indexes[indexID]
	m.mu.RUnlock()

	if !found || status != IndexStatusActive {
		return nil, &NotFoundError{Kind: "index", ID: indexID}
	}

	return loadIndexMetadata(ctx, m.store, indexID, m.opts)
}

// IndexExists reports whether an Active index with this ID is known.
func (m *FileBacked) IndexExists(indexID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.manifest.Indexes[indexID] == IndexStatusActive
}

// ListIndexes returns the IDs of known indexes, sorted. With no statuses
// given, every index is listed; otherwise only those in one of the given
// statuses.
func (m *FileBacked) ListIndexes(statuses ...IndexStatus) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	indexIDs := make([]string, 0, len(m.manifest.Indexes))
	for indexID, status := range m.manifest.Indexes {
		if len(statuses) == 0 || slices.Contains(statuses, status) {
			indexIDs = append(indexIDs, indexID)
		}
	}

	slices.Sort(indexIDs)

	return indexIDs
}

// ListIndexMetadatas loads the metadata files of all Active indexes, in
// index ID order.
func (m *FileBacked) ListIndexMetadatas(ctx context.Context) (metadatas []*IndexMetadata, err error) {
	start := time.Now()
	defer func() { m.opts.metrics.RecordIndexOperation("list_metadatas", time.Since(start), err) }()

	indexIDs := m.ListIndexes(IndexStatusActive)
	metadatas = make([]*IndexMetadata, len(indexIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentMetadataLoads)

	for i, indexID := range indexIDs {
		g.Go(func() error {
			metadata, err := loadIndexMetadata(gctx, m.store, indexID, m.opts)
			if err != nil {
				return err
			}

			metadatas[i] = metadata

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return metadatas, nil
}

// CreateIndexTemplate adds a template to the manifest. Unless overwrite is
// set, an existing template under the same ID is an AlreadyExistsError.
func (m *FileBacked) CreateIndexTemplate(ctx context.Context, tpl template.Template, overwrite bool) (err error) {
	start := time.Now()
	defer func() { m.opts.metrics.RecordTemplateOperation("create", time.Since(start), err) }()

	if err := tpl.Validate(); err != nil {
		return err
	}

	release, err := m.opts.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer release()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, found := m.manifest.Templates[tpl.TemplateID]; found && !overwrite {
		return &AlreadyExistsError{Kind: "index template", ID: tpl.TemplateID}
	}

	staged := m.manifest.Clone()
	staged.Templates[tpl.TemplateID] = tpl

	if err := saveManifest(ctx, m.store, staged, m.opts); err != nil {
		return err
	}

	m.manifest = staged

	return nil
}

// DeleteIndexTemplates removes templates by ID. All named templates must
// exist: if any ID is unknown, nothing is deleted and a NotFoundError names
// the first missing ID.
func (m *FileBacked) DeleteIndexTemplates(ctx context.Context, templateIDs ...string) (err error) {
	start := time.Now()
	defer func() { m.opts.metrics.RecordTemplateOperation("delete", time.Since(start), err) }()

	release, err := m.opts.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer release()

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, templateID := range slices.Sorted(slices.Values(templateIDs)) {
		if _, found := m.manifest.Templates[templateID]; !found {
			return &NotFoundError{Kind: "index template", ID: templateID}
		}
	}

	staged := m.manifest.Clone()
	for _, templateID := range templateIDs {
		delete(staged.Templates, templateID)
	}

	if err := saveManifest(ctx, m.store, staged, m.opts); err != nil {
		return err
	}

	m.manifest = staged

	return nil
}

// ListIndexTemplates returns all templates, sorted by template ID.
func (m *FileBacked) ListIndexTemplates() []template.Template {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.templatesLocked()
}

// FindMatchingTemplates returns the templates whose patterns match indexID,
// best match first: descending priority, then ascending template ID.
func (m *FileBacked) FindMatchingTemplates(indexID string) []template.Template {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return template.FindMatching(m.templatesLocked(), indexID)
}

// templatesLocked returns a deep copy of all templates, sorted by template
// ID. Callers hold mu.
func (m *FileBacked) templatesLocked() []template.Template {
	templates := make([]template.Template, 0, len(m.manifest.Templates))
	for _, tpl := range m.manifest.Templates {
		tpl.IndexIDPatterns = slices.Clone(tpl.IndexIDPatterns)
		templates = append(templates, tpl)
	}

	slices.SortFunc(templates, func(left, right template.Template) int {
		return cmp.Compare(left.TemplateID, right.TemplateID)
	})

	return templates
}

// setIndexStatus stages status under indexID, persists the staged manifest,
// then swaps it in. A failed save leaves the in-memory manifest untouched.
// Callers hold mu.
func (m *FileBacked) setIndexStatus(ctx context.Context, indexID string, status IndexStatus) error {
	staged := m.manifest.Clone()
	staged.Indexes[indexID] = status

	if err := saveManifest(ctx, m.store, staged, m.opts); err != nil {
		return err
	}

	m.manifest = staged

	return nil
}

// poll re-reads the manifest on a ticker until Close.
func (m *FileBacked) poll(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.refresh()
		}
	}
}

// refresh replaces the in-memory manifest with the stored one. Failures
// leave the previous copy in place.
func (m *FileBacked) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	data, err := getBytes(ctx, m.store, ManifestFileName)
	if err != nil {
		m.opts.logger.Warn("failed to refresh manifest", "error", err)

		return
	}

	manifest, err := decodeManifest(m.opts.codec, data)
	if err != nil {
		m.opts.logger.Warn("failed to refresh manifest", "error", err)

		return
	}

	m.mu.Lock()
	m.manifest = manifest
	m.mu.Unlock()
}
