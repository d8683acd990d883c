package loader

const (
	ColumnTime   = "time"
	ColumnThrust = "thrust"
)

// aliases maps historical header names onto the canonical ones
var aliases = map[string]string{
	"Time (s)":     ColumnTime,
	"Thrust (ozf)": ColumnThrust,
}

type columnIndex struct {
	time, thrust int
}

// resolveColumns renames aliased headers and locates the time and thrust
// columns. An exact canonical header wins over an alias; a losing alias
// keeps its original name. Repeated headers resolve to the first one. It returns the renamed header and the names of
// any columns that could not be found.
func resolveColumns(header []string) ([]string, columnIndex, []string) {
	renamed := make([]string, len(header))
	copy(renamed, header)

	idx := columnIndex{time: -1, thrust: -1}
	for i, h := range header {
		switch {
		case h == ColumnTime && idx.time == -1:
			idx.time = i
		case h == ColumnThrust && idx.thrust == -1:
			idx.thrust = i
		}
	}

	for i, h := range header {
		canonical, ok := aliases[h]
		if !ok {
			continue
		}
		switch {
		case canonical == ColumnTime && idx.time == -1:
			idx.time = i
			renamed[i] = canonical
		case canonical == ColumnThrust && idx.thrust == -1:
			idx.thrust = i
			renamed[i] = canonical
		}
	}

	var missing []string
	if idx.time == -1 {
		missing = append(missing, ColumnTime)
	}
	if idx.thrust == -1 {
		missing = append(missing, ColumnThrust)
	}

	return renamed, idx, missing
}
