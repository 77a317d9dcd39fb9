package cache

// Keyer derives cache keys from analysis inputs.
type Keyer interface {
	// ReportKey identifies a full analysis report.
	ReportKey(inputHash string, opts ReportKeyOpts) string
	// HopsKey identifies a hop map for one origin.
	HopsKey(inputHash, origin string, opts HopsKeyOpts) string
}

// ReportKeyOpts lists every option that changes a report. Whether life
// events were generated is part of the input hash, not of the options.
type ReportKeyOpts struct {
	Origin  string  `json:"origin"`
	MaxHops int     `json:"max_hops"`
	MinBorn string  `json:"min_born,omitempty"`
	Hops    string  `json:"hops,omitempty"`
	Probes  []int64 `json:"probes,omitempty"`
}

// HopsKeyOpts lists the edge kinds a hop map was computed with.
type HopsKeyOpts struct {
	Parent   bool `json:"parent"`
	Child    bool `json:"child"`
	Marriage bool `json:"marriage"`
	Link     bool `json:"link"`
}

// DefaultKeyer produces "report:<hash>" and "hops:<hash>" style keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ReportKey hashes the input hash together with the options.
func (DefaultKeyer) ReportKey(inputHash string, opts ReportKeyOpts) string {
	return hashKey("report", inputHash, opts)
}

// HopsKey hashes the input hash, origin and edge options.
func (DefaultKeyer) HopsKey(inputHash, origin string, opts HopsKeyOpts) string {
	return hashKey("hops", inputHash, origin, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, giving each caller its
// own namespace in a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReportKey returns the prefixed report key.
func (k *ScopedKeyer) ReportKey(inputHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(inputHash, opts)
}

// HopsKey returns the prefixed hops key.
func (k *ScopedKeyer) HopsKey(inputHash, origin string, opts HopsKeyOpts) string {
	return k.prefix + k.inner.HopsKey(inputHash, origin, opts)
}
