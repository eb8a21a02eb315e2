// Package route finds shortest and alternative paths over a graph.RoadGraph.
//
// ShortestPath runs Dijkstra's algorithm with a binary heap and stops as soon
// as the destination is settled. AlternativePath searches again on a copy of
// the graph where the edges of already known paths are penalized, then
// reports the real, unpenalized length of the new path.
package route
