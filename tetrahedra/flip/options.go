package flip

// Options configures a Flipper and the passes built on it
type Options struct {
	Criterion     Criterion
	CheckValidity bool // run CheckCell on every cell touched by a commit
	Verbose       bool
	MaxPasses     int
}

func DefaultOptions() Options {
	return Options{
		Criterion: MinAngleBased,
		MaxPasses: 1,
	}
}

type Option func(*Options)

func WithCriterion(c Criterion) Option { return func(o *Options) { o.Criterion = c } }

func WithValidityChecks(check bool) Option { return func(o *Options) { o.CheckValidity = check } }

func WithVerbose(verbose bool) Option { return func(o *Options) { o.Verbose = verbose } }

func WithMaxPasses(n int) Option { return func(o *Options) { o.MaxPasses = n } }
