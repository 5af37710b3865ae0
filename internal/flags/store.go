package flags

// Store holds every flag produced during one run, grouped by project with
// insertion order preserved in both dimensions. Report ordering must match
// detection order, so nothing here sorts, deletes, or reorders.
//
// The store is owned by the pipeline orchestrator for the duration of a
// run; it is never shared across runs and has no persistence.
type Store struct {
	projects  []string
	byProject map[string][]*Flag
	total     int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byProject: make(map[string][]*Flag)}
}

// Add appends a flag to its project's sequence.
func (s *Store) Add(f *Flag) {
	if _, ok := s.byProject[f.Project]; !ok {
		s.projects = append(s.projects, f.Project)
	}
	s.byProject[f.Project] = append(s.byProject[f.Project], f)
	s.total++
}

// Projects returns project keys in first-insertion order.
func (s *Store) Projects() []string {
	out := make([]string, len(s.projects))
	copy(out, s.projects)
	return out
}

// ByProject returns the flag sequence for one project in detection order.
// The returned slice shares backing storage with the store; callers mutate
// flags through it but must not reorder or truncate it.
func (s *Store) ByProject(project string) []*Flag {
	return s.byProject[project]
}

// All returns every flag across projects, project insertion order first,
// detection order within a project.
func (s *Store) All() []*Flag {
	out := make([]*Flag, 0, s.total)
	for _, p := range s.projects {
		out = append(out, s.byProject[p]...)
	}
	return out
}

// OpenFlags returns the mutable OPEN-only view handed to the enrichment
// overlay. The overlay writes through these pointers; it cannot reach
// resolved flags at all.
func (s *Store) OpenFlags() []*Flag {
	var out []*Flag
	for _, f := range s.All() {
		if f.IsOpen() {
			out = append(out, f)
		}
	}
	return out
}

// CountByStatus returns the number of flags currently in the given status.
func (s *Store) CountByStatus(st Status) int {
	n := 0
	for _, f := range s.All() {
		if f.Status == st {
			n++
		}
	}
	return n
}

// Len returns the total flag count.
func (s *Store) Len() int { return s.total }
