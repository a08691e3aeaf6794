package property

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/starford/modemfind/internal/models"
)

// Criterion requires the value of Key to equal Value exactly.
type Criterion struct {
	Key   string
	Value string
}

// ModelCriteria returns the criteria that select interfaces of m.
func ModelCriteria(m models.Model) []Criterion {
	return []Criterion{
		{Key: KeyVendorID, Value: m.VendorID},
		{Key: KeyModelID, Value: m.ModelID},
	}
}

// Satisfies reports whether every criterion holds for block.
// An absent key fails its criterion. No criteria always holds.
func Satisfies(block string, criteria []Criterion) bool {
	return lo.EveryBy(criteria, func(c Criterion) bool {
		v, ok := Value(block, c.Key)
		return ok && v == c.Value
	})
}

// Match collects the value of target from every block that satisfies
// criteria, preserving block order. Blocks without target are skipped.
func Match(blocks []string, target string, criteria []Criterion) []string {
	return lo.FilterMap(blocks, func(block string, _ int) (string, bool) {
		if !Satisfies(block, criteria) {
			return "", false
		}
		return Value(block, target)
	})
}

// BaseFor returns the numeric base udev uses to encode key.
func BaseFor(key string) int {
	switch key {
	case KeyInterfaceNum, KeyVendorID, KeyModelID:
		return 16
	default:
		return 10
	}
}

// Aggregate parses values in the given base and returns the lowest value and
// the number of values parsed. Values that do not parse as non-negative
// integers are ignored. ok is false when nothing parsed.
func Aggregate(values []string, base int) (models.PortRange, bool) {
	nums := lo.FilterMap(values, func(v string, _ int) (int, bool) {
		n, err := strconv.ParseUint(v, base, 31)
		if err != nil {
			return 0, false
		}
		return int(n), true
	})
	if len(nums) == 0 {
		return models.PortRange{}, false
	}
	return models.PortRange{Start: lo.Min(nums), Count: len(nums)}, true
}
