package aggregates

import "sort"

// Contract records which tables an aggregate may write and the invariant it
// keeps while doing so. Each write runs in one transaction owned by the
// aggregate; list and read-model queries stay on the table repos.
type Contract struct {
	Name      string
	Writes    []string
	Invariant string
}

// Aggregate is implemented by every write-side aggregate.
type Aggregate interface {
	Contract() Contract
}

func Contracts() []Contract {
	return []Contract{
		SessionAggregateContract,
		ThemeAggregateContract,
		ArtifactAggregateContract,
		GoalAggregateContract,
		ConsistencyAggregateContract,
	}
}

// WritersOf returns the sorted names of the aggregates allowed to write table.
func WritersOf(table string) []string {
	var out []string
	for _, c := range Contracts() {
		for _, t := range c.Writes {
			if t == table {
				out = append(out, c.Name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}
