package domain

// ScreeningCandidate is one cleaned row of a UTME/PUTME screening
// result, enriched with register data where a match was found.
type ScreeningCandidate struct {
	Rank       int     `json:"rank"`
	ExamNumber string  `json:"exam_number" validate:"required"`
	FullName   string  `json:"full_name"`
	Phone      string  `json:"phone,omitempty"`
	State      string  `json:"state,omitempty"`
	BatchID    string  `json:"batch_id,omitempty"`
	Score      float64 `json:"score" validate:"min=0"`
	Registered bool    `json:"registered"`
}

// RegisteredCandidate is one row of a candidate batch register or a
// JAMB candidate list: who was expected to sit the screening.
type RegisteredCandidate struct {
	ExamNumber string `json:"exam_number" validate:"required"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone,omitempty"`
	State      string `json:"state,omitempty"`
	BatchID    string `json:"batch_id,omitempty"`
}

// ScreeningReport is the cleaned, ranked output of one screening file.
type ScreeningReport struct {
	Source     string               `json:"source"`
	MaxScore   float64              `json:"max_score"`
	Candidates []ScreeningCandidate `json:"candidates" validate:"dive"`

	// Absent lists registered candidates with no result row; Mismatch
	// lists result rows whose name disagrees with the register.
	Absent   []RegisteredCandidate `json:"absent,omitempty"`
	Mismatch []ScreeningCandidate  `json:"mismatch,omitempty"`

	// Bands is the percent-score distribution printed on the
	// analysis sheet, highest band first.
	Bands []ScoreBand `json:"bands,omitempty"`
}

// ScoreBand counts candidates whose percent score falls in one band.
type ScoreBand struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CAOSCE station keys in report column order.
const (
	StationProcedure1 = "PS1"
	StationQuestion2  = "QS2"
	StationProcedure3 = "PS3"
	StationQuestion4  = "QS4"
	StationProcedure5 = "PS5"
	StationQuestion6  = "QS6"
	StationViva       = "VIVA"
)

// CAOSCEStationOrder is the canonical column order for station scores.
var CAOSCEStationOrder = []string{
	StationProcedure1,
	StationQuestion2,
	StationProcedure3,
	StationQuestion4,
	StationProcedure5,
	StationQuestion6,
	StationViva,
}

// CAOSCEResult aggregates one candidate's per-station scores.
type CAOSCEResult struct {
	ExamNumber string             `json:"exam_number" validate:"required"`
	FullName   string             `json:"full_name"`
	Stations   map[string]float64 `json:"stations"`
	Missing    []string           `json:"missing,omitempty"`
	Total      float64            `json:"total" validate:"min=0"`
	Percent    float64            `json:"percent" validate:"min=0,max=100"`
}
