package editor

import (
	"context"
	"sync"

	"kirin-dashboard/internal/models"
	"kirin-dashboard/pkg/logger"
)

// Source provides the read-only collections the editor works on.
type Source interface {
	ListPages(ctx context.Context) ([]models.Page, error)
	ListSections(ctx context.Context, pageID string) ([]models.Section, error)
	ListSectionMedia(ctx context.Context, sectionID string) ([]models.Media, error)
}

// Loader fetches collections into a Store. Each fetch kind carries a
// sequence number and a response is applied only if no newer request of the
// same kind was issued and the selection it was made for still holds.
// Failed fetches are logged and applied as empty collections.
type Loader struct {
	store  *Store
	source Source

	mu         sync.Mutex
	pageSeq    uint64
	sectionSeq uint64
	mediaSeq   uint64
}

func NewLoader(store *Store, source Source) *Loader {
	initMetrics()
	return &Loader{store: store, source: source}
}

// LoadPages fetches the page list. It reports whether the result was applied.
func (l *Loader) LoadPages(ctx context.Context) bool {
	seq := l.begin(&l.pageSeq)

	pages, err := l.source.ListPages(ctx)
	if err != nil {
		l.logFailure(ctx, err, "pages", nil)
		pages = nil
	}

	return l.finish(&l.pageSeq, seq, "pages", func() bool {
		l.store.SetPages(pages)
		return true
	})
}

// SelectPage switches the store to pageID and loads its sections.
func (l *Loader) SelectPage(ctx context.Context, pageID string) bool {
	l.store.SelectPage(pageID)
	return l.LoadSections(ctx, pageID)
}

// LoadSections fetches the sections of pageID. The response is dropped when
// another page has been selected meanwhile.
func (l *Loader) LoadSections(ctx context.Context, pageID string) bool {
	seq := l.begin(&l.sectionSeq)

	sections, err := l.source.ListSections(ctx, pageID)
	if err != nil {
		l.logFailure(ctx, err, "sections", map[string]interface{}{"page_id": pageID})
		sections = nil
	}

	return l.finish(&l.sectionSeq, seq, "sections", func() bool {
		if l.store.PageID() != pageID {
			return false
		}
		l.store.SetSections(pageID, sections)
		return true
	})
}

// SelectSection selects id and loads its media.
func (l *Loader) SelectSection(ctx context.Context, id string) bool {
	changed := l.store.SelectSection(id)
	if id != "" && l.store.SelectedID() == id {
		l.LoadMedia(ctx, id)
	}
	return changed
}

// LoadMedia fetches the media attached to sectionID. The response is dropped
// when the selection has moved to another section.
func (l *Loader) LoadMedia(ctx context.Context, sectionID string) bool {
	seq := l.begin(&l.mediaSeq)

	media, err := l.source.ListSectionMedia(ctx, sectionID)
	if err != nil {
		l.logFailure(ctx, err, "media", map[string]interface{}{"section_id": sectionID})
		media = nil
	}

	return l.finish(&l.mediaSeq, seq, "media", func() bool {
		if l.store.SelectedID() != sectionID {
			return false
		}
		l.store.SetMedia(sectionID, media)
		return true
	})
}

func (l *Loader) begin(counter *uint64) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	*counter++
	return *counter
}

// finish applies a response while holding the loader lock, so a newer
// request cannot slip in between the sequence check and the store update.
func (l *Loader) finish(counter *uint64, seq uint64, resource string, apply func() bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if *counter != seq || !apply() {
		loaderFetchesTotal.WithLabelValues(resource, "stale").Inc()
		return false
	}
	loaderFetchesTotal.WithLabelValues(resource, "applied").Inc()
	return true
}

func (l *Loader) logFailure(ctx context.Context, err error, resource string, fields map[string]interface{}) {
	loaderFetchesTotal.WithLabelValues(resource, "error").Inc()

	entry := logger.FromContext(ctx).WithError(err).WithField("resource", resource)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Warn("Fetch failed, showing an empty collection")
}
