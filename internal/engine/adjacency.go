package engine

import "math"

// NeighborRadiusDeg is the centroid-distance radius (in degrees) that
// defines tract adjacency for crime displacement and dealer moves.
const NeighborRadiusDeg = 0.02

// buildAdjacency precomputes the centroid-proximity neighbor lists once at
// initialization. Neighbor lists follow TractIDs order, keeping every
// spatial sweep deterministic.
func (s *State) buildAdjacency(radiusDeg float64) {
	s.Adjacency = make(map[string][]string, len(s.TractIDs))
	for _, tid := range s.TractIDs {
		t := s.Tracts[tid]
		var neighbors []string
		for _, oid := range s.TractIDs {
			if oid == tid {
				continue
			}
			o := s.Tracts[oid]
			dLat := o.CentroidLat - t.CentroidLat
			dLon := o.CentroidLon - t.CentroidLon
			if math.Sqrt(dLat*dLat+dLon*dLon) <= radiusDeg {
				neighbors = append(neighbors, oid)
			}
		}
		s.Adjacency[tid] = neighbors
	}
}
