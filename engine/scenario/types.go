// Package scenario holds the mock ITR scenario model: the aggregate and its
// value objects, the key/value representation codec, the builders, and the
// validator. Every function in this package is pure.
package scenario

import "github.com/danny-zent/mock-itr-scenario-mcp/engine/domain"

// Defaults applied by Default, the builders and FromRepresentation.
const (
	DefaultUserName     = "테스트사용자"
	DefaultQueueName    = "refund-search.fifo"
	DefaultStepDelay    = 0.5
	DefaultBizType      = domain.BizIndividual
	DefaultCertType     = domain.CertKakao
	defaultProgressText = "0%"
)

// UserInfo identifies the mock user. Empty optional strings mean "unset".
type UserInfo struct {
	Name     string
	Phone    string
	Birthday string // YYYYMMDD
	CertType domain.CertType
}

// BizLocation is one registered place of business. Attributes are opaque.
type BizLocation struct {
	BizRegNo string
	Name     string
	Address  string
}

// TaxpayerInfo carries the taxpayer id and business registration attributes.
type TaxpayerInfo struct {
	TIN       string
	BizRegNo  string
	BizName   string
	Locations []BizLocation
}

// RefundItem is one refund line item. Attributes are opaque.
type RefundItem struct {
	Name    string
	TaxYear string
	Amount  int64
}

// RefundResult holds the refund amounts in won. TotalRefund is asserted by
// the caller and is not derived from the category amounts.
type RefundResult struct {
	TotalRefund        int64
	StartupReduction   int64 // 창업중소기업감면
	EmploymentIncrease int64 // 고용증대
	SocialInsurance    int64 // 사회보험료
	Items              []RefundItem
}

// ActionConfig is the outcome wired to one stage slot. ErrorType is only
// meaningful when Success is false.
type ActionConfig struct {
	Success   bool
	ErrorType string
	ErrorMsg  string
}

// OK is the default slot outcome.
func OK() ActionConfig { return ActionConfig{Success: true} }

// ProgressStep is one progress update, reported after DelaySeconds.
type ProgressStep struct {
	StepName     string
	Progress     string
	DelaySeconds float64
}

// ProgressConfig describes the progress updates posted to QueueName.
type ProgressConfig struct {
	Enabled   bool
	QueueName string
	Steps     []ProgressStep
}

// ScenarioConfig is the aggregate. It owns all nested values; copies made
// with Clone share nothing.
type ScenarioConfig struct {
	ScenarioName string
	Description  string
	UserInfo     UserInfo
	TaxpayerInfo TaxpayerInfo
	BizType      domain.BizType
	RefundResult RefundResult
	CertRequest  ActionConfig
	CertResponse ActionConfig
	Check        ActionConfig
	Load         ActionConfig
	Progress     ProgressConfig
}

// Default returns a scenario with every documented default applied.
func Default() ScenarioConfig {
	return ScenarioConfig{
		UserInfo:     UserInfo{Name: DefaultUserName, CertType: DefaultCertType},
		TaxpayerInfo: TaxpayerInfo{Locations: []BizLocation{}},
		BizType:      DefaultBizType,
		RefundResult: RefundResult{Items: []RefundItem{}},
		CertRequest:  OK(),
		CertResponse: OK(),
		Check:        OK(),
		Load:         OK(),
		Progress:     ProgressConfig{QueueName: DefaultQueueName, Steps: []ProgressStep{}},
	}
}

// Slot returns a pointer to the ActionConfig for stage. StageCalc resolves
// to the load slot; there is no dedicated calculation slot.
func (s *ScenarioConfig) Slot(stage domain.Stage) *ActionConfig {
	switch stage {
	case domain.StageCertRequest:
		return &s.CertRequest
	case domain.StageCertResponse:
		return &s.CertResponse
	case domain.StageCheck:
		return &s.Check
	case domain.StageLoad, domain.StageCalc:
		return &s.Load
	}
	return nil
}

// Clone returns a deep copy.
func (s ScenarioConfig) Clone() ScenarioConfig {
	out := s
	out.TaxpayerInfo.Locations = append([]BizLocation{}, s.TaxpayerInfo.Locations...)
	out.RefundResult.Items = append([]RefundItem{}, s.RefundResult.Items...)
	out.Progress.Steps = append([]ProgressStep{}, s.Progress.Steps...)
	return out
}
