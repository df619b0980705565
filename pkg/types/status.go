package types

// Severity is the band a single metric falls into.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityElevated
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityElevated:
		return "elevated"
	case SeverityCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Level is the aggregate status level.
type Level int

const (
	LevelNormal Level = iota
	LevelElevated
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelElevated:
		return "elevated"
	case LevelCritical:
		return "critical"
	default:
		return "normal"
	}
}

// LevelFor maps a metric severity onto the aggregate level.
func LevelFor(s Severity) Level {
	switch s {
	case SeverityCritical:
		return LevelCritical
	case SeverityElevated:
		return LevelElevated
	default:
		return LevelNormal
	}
}

// Metric identifies one of the classified host metrics.
type Metric int

const (
	MetricNone Metric = iota
	MetricCPU
	MetricMemory
	MetricDisk
	MetricNetwork
)

// Metrics lists the classified metrics in tie-break order, highest priority first.
var Metrics = []Metric{MetricCPU, MetricMemory, MetricDisk, MetricNetwork}

func (m Metric) String() string {
	switch m {
	case MetricCPU:
		return "cpu"
	case MetricMemory:
		return "memory"
	case MetricDisk:
		return "disk"
	case MetricNetwork:
		return "network"
	default:
		return "none"
	}
}

// Priority breaks severity ties: cpu > memory > disk > network.
func (m Metric) Priority() int {
	switch m {
	case MetricCPU:
		return 4
	case MetricMemory:
		return 3
	case MetricDisk:
		return 2
	case MetricNetwork:
		return 1
	default:
		return 0
	}
}

// Status is the published activity status.
type Status struct {
	Level   Level
	Trigger Metric
}

// NormalStatus is the status with no active trigger.
var NormalStatus = Status{Level: LevelNormal, Trigger: MetricNone}

func (s Status) String() string {
	if s.Trigger == MetricNone {
		return s.Level.String()
	}
	return s.Level.String() + "/" + s.Trigger.String()
}
