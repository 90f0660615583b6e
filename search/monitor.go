package search

import (
	"github.com/poiesic/retriever/core"
	"github.com/poiesic/retriever/vecindex"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterRewrite(rewritten string)
	AfterIndexSearch(neighbors []vecindex.Neighbor)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterRewrite(_ string)                  {}
func (n *noopMonitor) AfterIndexSearch(_ []vecindex.Neighbor) {}
func (n *noopMonitor) Finish(_ []core.SearchResult)           {}
