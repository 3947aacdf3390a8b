package core

import (
	"sort"

	"github.com/davidkimai/recursive-distill/schema"
)

// FoldEvents folds one run's event stream into the persisted
// attribution graph. Nodes and links are only ever added, so folding
// the same events again leaves the graph unchanged. Contribution
// counts, aggregate metrics and ordering are recomputed after the fold
// to keep the stored artifact deterministic.
func FoldEvents(graph *schema.AttributionGraph, events []schema.Event) {
	nodeIndex := make(map[string]struct{}, len(graph.Nodes))
	for _, node := range graph.Nodes {
		nodeIndex[node.ID] = struct{}{}
	}
	linkSeen := make(map[schema.LinkKey]struct{}, len(graph.Links))
	for _, link := range graph.Links {
		linkSeen[link.Key()] = struct{}{}
	}

	for _, event := range events {
		source := ensureNode(graph, nodeIndex, schema.ContributorNodeID(event.Actor), schema.ContributorNode, event.Actor)
		for _, c := range eventContributions(event) {
			target := ensureNode(graph, nodeIndex, schema.ContentNodeID(c.ref), schema.ContentNode, c.ref)
			link := schema.Link{
				Source:    source,
				Target:    target,
				Kind:      event.Kind,
				Weight:    c.weight,
				Timestamp: event.Timestamp.UTC(),
				Metadata:  linkMetadata(event),
			}
			if _, ok := linkSeen[link.Key()]; ok {
				continue
			}
			linkSeen[link.Key()] = struct{}{}
			graph.Links = append(graph.Links, link)
		}
	}

	recomputeGraph(graph)
}

// contribution is one weighted content reference an event attributes to
// its actor.
type contribution struct {
	ref    string
	weight float64
}

// eventContributions expands an event into weighted content references.
// Commit events fan out one contribution per file delta, weighted by
// changed lines; a commit without deltas still weighs the minimum one.
// Platform events carry their fixed kind weight.
func eventContributions(event schema.Event) []contribution {
	if event.Kind == schema.CommitEvent || event.Kind == schema.PRCommitEvent {
		deltas := event.Payload.FileDeltas
		if len(deltas) == 0 {
			return []contribution{{ref: event.TargetRef, weight: 1}}
		}
		out := make([]contribution, 0, len(deltas))
		for _, delta := range deltas {
			out = append(out, contribution{ref: delta.Path, weight: delta.ChangedLines()})
		}
		return out
	}
	return []contribution{{ref: event.TargetRef, weight: schema.LinkWeight(event.Kind)}}
}

// linkMetadata records the provenance of a link: the revision hash for
// commit kinds, the platform URL otherwise.
func linkMetadata(event schema.Event) map[string]string {
	switch {
	case event.Kind == schema.CommitEvent || event.Kind == schema.PRCommitEvent:
		return map[string]string{"revision": event.ID}
	case event.Payload.URL != "":
		return map[string]string{"url": event.Payload.URL}
	default:
		return nil
	}
}

// ensureNode resolves a node by id, appending it when missing, and
// returns the id.
func ensureNode(graph *schema.AttributionGraph, index map[string]struct{}, id string, kind schema.NodeKind, label string) string {
	if _, ok := index[id]; ok {
		return id
	}
	index[id] = struct{}{}
	graph.Nodes = append(graph.Nodes, schema.Node{ID: id, Kind: kind, Label: label})
	return id
}

// recomputeGraph rebuilds everything derived from the node and link
// sets: per-node contribution counts, per-contributor kind breakdowns,
// aggregate metrics and the canonical ordering.
func recomputeGraph(graph *schema.AttributionGraph) {
	sort.Slice(graph.Links, func(i, j int) bool {
		a, b := graph.Links[i], graph.Links[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Kind < b.Kind
	})
	sort.Slice(graph.Nodes, func(i, j int) bool {
		return graph.Nodes[i].ID < graph.Nodes[j].ID
	})

	bySource := make(map[string]int)
	byTarget := make(map[string]int)
	breakdown := make(map[string]map[schema.EventKind]int)
	kinds := make(map[schema.EventKind]int)
	for _, link := range graph.Links {
		bySource[link.Source]++
		byTarget[link.Target]++
		if breakdown[link.Source] == nil {
			breakdown[link.Source] = make(map[schema.EventKind]int)
		}
		breakdown[link.Source][link.Kind]++
		kinds[link.Kind]++
	}

	var contributors, contents int
	for i := range graph.Nodes {
		node := &graph.Nodes[i]
		if node.Kind == schema.ContributorNode {
			contributors++
			node.Contributions = bySource[node.ID]
			node.Breakdown = breakdown[node.ID]
			continue
		}
		contents++
		node.Contributions = byTarget[node.ID]
	}

	graph.Metrics = schema.GraphMetrics{
		Density:          graphDensity(len(graph.Nodes), len(graph.Links)),
		ContributorCount: contributors,
		ContentCount:     contents,
		LinkCount:        len(graph.Links),
		LinkKinds:        kinds,
	}
}

// graphDensity is |links| over the undirected pair count n(n-1)/2,
// zero for graphs too small to have a pair.
func graphDensity(nodes, links int) float64 {
	pairs := float64(nodes) * float64(nodes-1) / 2
	if pairs <= 0 {
		return 0
	}
	return float64(links) / pairs
}

// TopContributors returns up to limit contributor nodes ordered by
// contribution count, ties broken by id.
func TopContributors(graph *schema.AttributionGraph, limit int) []schema.Node {
	var contributors []schema.Node
	for _, node := range graph.Nodes {
		if node.Kind == schema.ContributorNode {
			contributors = append(contributors, node)
		}
	}
	sort.Slice(contributors, func(i, j int) bool {
		if contributors[i].Contributions != contributors[j].Contributions {
			return contributors[i].Contributions > contributors[j].Contributions
		}
		return contributors[i].ID < contributors[j].ID
	})
	if limit > 0 && len(contributors) > limit {
		contributors = contributors[:limit]
	}
	return contributors
}
