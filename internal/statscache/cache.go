// Package statscache guarda os agregados por período com TTL curto e
// colapsa requisições concorrentes da mesma chave em uma única busca ao
// upstream.
package statscache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
)

// Key identifica uma entrada do cache: o token de período e o filtro de
// sub1s normalizado ("ALL" quando não há filtro).
type Key struct {
	Period string
	Filter string
}

// NewKey normaliza o filtro de sub1s (ordenado, separado por vírgula) para
// que a mesma combinação de sub1s sempre produza a mesma chave.
func NewKey(period string, sub1s []string) Key {
	if len(sub1s) == 0 {
		return Key{Period: period, Filter: "ALL"}
	}

	sorted := make([]string, len(sub1s))
	copy(sorted, sub1s)
	sort.Strings(sorted)
	return Key{Period: period, Filter: strings.Join(sorted, ",")}
}

// FetchFunc busca e agrega os dados de uma chave junto ao upstream.
type FetchFunc func() ([]domain.AggregatedSubTotal, error)

type Store interface {
	// GetOrFetch retorna a entrada fresca da chave, aguarda uma busca em
	// andamento para a mesma chave, ou dispara a busca — nunca mais de uma
	// busca simultânea por chave.
	GetOrFetch(key Key, fetch FetchFunc) ([]domain.AggregatedSubTotal, error)
	// Invalidate descarta a entrada da chave, se existir.
	Invalidate(key Key)
}

type entry struct {
	totals    []domain.AggregatedSubTotal
	fetchedAt time.Time
}

type inflight struct {
	done   chan struct{}
	totals []domain.AggregatedSubTotal
	err    error
}

type store struct {
	ttl time.Duration

	mu       sync.Mutex
	entries  map[Key]*entry
	inflight map[Key]*inflight

	now func() time.Time
}

func New(ttl time.Duration) Store {
	return &store{
		ttl:      ttl,
		entries:  make(map[Key]*entry),
		inflight: make(map[Key]*inflight),
		now:      time.Now,
	}
}

func (s *store) GetOrFetch(key Key, fetch FetchFunc) ([]domain.AggregatedSubTotal, error) {
	s.mu.Lock()

	if e, ok := s.entries[key]; ok && s.now().Sub(e.fetchedAt) < s.ttl {
		s.mu.Unlock()
		return e.totals, nil
	}

	if fl, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		// Outra goroutine já está buscando esta chave
		<-fl.done
		return fl.totals, fl.err
	}

	fl := &inflight{done: make(chan struct{})}
	s.inflight[key] = fl
	s.mu.Unlock()

	totals, err := fetch()

	s.mu.Lock()
	delete(s.inflight, key)
	if err == nil {
		s.entries[key] = &entry{totals: totals, fetchedAt: s.now()}
	} else {
		logrus.WithFields(logrus.Fields{
			"period": key.Period,
			"filter": key.Filter,
		}).Warn("Falha ao atualizar cache de estatísticas: ", err)
	}
	s.mu.Unlock()

	fl.totals = totals
	fl.err = err
	close(fl.done)

	return totals, err
}

func (s *store) Invalidate(key Key) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}
