package models

// DashboardData is everything one render of the dashboard needs.
type DashboardData struct {
	Options   FilterOptions  `json:"options"`
	Metrics   Metrics        `json:"metrics"`
	Preview   Preview        `json:"preview"`
	Missing   []MissingCount `json:"missing"`
	Charts    Charts         `json:"charts"`
	Empty     bool           `json:"empty"`
	Warning   string         `json:"warning,omitempty"`
	Selection SelectionEcho  `json:"selection"`
}

// FilterOptions describes which controls can be offered and their ranges.
type FilterOptions struct {
	Types      []string `json:"types,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
	Year       *Bounds  `json:"model_year,omitempty"`
	Price      *Bounds  `json:"price,omitempty"`
}

type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SelectionEcho is the effective selection, used to pre-fill the sidebar.
type SelectionEcho struct {
	Types          []string `json:"types"`
	Conditions     []string `json:"conditions"`
	Year           *Bounds  `json:"model_year,omitempty"`
	Price          *Bounds  `json:"price,omitempty"`
	RemoveOutliers bool     `json:"remove_outliers"`
}

// Metrics are the four headline numbers. A nil median means "not available".
type Metrics struct {
	TotalRows      int      `json:"total_rows"`
	FilteredRows   int      `json:"filtered_rows"`
	MedianPrice    *float64 `json:"median_price"`
	MedianOdometer *float64 `json:"median_odometer"`
}

type Preview struct {
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

type Cell struct {
	Value   string `json:"value"`
	Missing bool   `json:"missing,omitempty"`
}

type MissingCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// Charts holds the data behind each chart panel. A nil panel means the
// columns it needs are absent; Notes carries the message shown instead.
type Charts struct {
	OdometerHist *Histogram        `json:"odometer_histogram,omitempty"`
	PriceHist    *Histogram        `json:"price_histogram,omitempty"`
	Scatter      *Scatter          `json:"scatter,omitempty"`
	Box          *BoxPlot          `json:"boxplot,omitempty"`
	Notes        map[string]string `json:"notes,omitempty"`
}

type Histogram struct {
	Column string `json:"column"`
	Title  string `json:"title"`
	Bins   []Bin  `json:"bins"`
}

type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

type Scatter struct {
	Title   string       `json:"title"`
	X       string       `json:"x"`
	Y       string       `json:"y"`
	Opacity float64      `json:"opacity"`
	Points  [][2]float64 `json:"points"`
	Total   int          `json:"total"`
}

type BoxPlot struct {
	Title  string     `json:"title"`
	X      string     `json:"x"`
	Y      string     `json:"y"`
	Groups []BoxGroup `json:"groups"`
}

// BoxGroup uses Tukey whiskers: the most extreme values within 1.5 IQR of the box.
type BoxGroup struct {
	Label      string    `json:"label"`
	N          int       `json:"n"`
	LowerFence float64   `json:"lower_whisker"`
	Q1         float64   `json:"q1"`
	Median     float64   `json:"median"`
	Q3         float64   `json:"q3"`
	UpperFence float64   `json:"upper_whisker"`
	Outliers   []float64 `json:"outliers,omitempty"`
}
