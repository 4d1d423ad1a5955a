package scenario

import (
	"fmt"
	"unicode/utf8"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/domain"
)

// Validator messages.
const (
	MsgZeroRefund     = "개인사업자 시나리오인데 환급액이 0원입니다."
	MsgPhoneLength    = "전화번호가 11자리가 아닙니다."
	MsgBirthdayFormat = "생년월일은 YYYYMMDD 형식이어야 합니다."
	MsgTINLength      = "납세자관리번호는 18자리여야 합니다."
	msgParsePrefix    = "시나리오 파싱 오류: "
)

// Report is the validator verdict. Valid is true iff Errors is empty.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func newReport() Report {
	return Report{Errors: []string{}, Warnings: []string{}}
}

// Validate decodes data and checks it. A decode failure is reported as the
// only error.
func Validate(data Representation) Report {
	s, err := FromRepresentation(data)
	if err != nil {
		r := newReport()
		r.Errors = append(r.Errors, msgParsePrefix+err.Error())
		return r
	}
	return ValidateScenario(s)
}

// ValidateValue validates a decoded value of any shape. Anything but an
// object is a parse failure.
func ValidateValue(v any) Report {
	m, ok := asMap(v)
	if !ok {
		r := newReport()
		r.Errors = append(r.Errors, msgParsePrefix+fmt.Sprintf("expected object, got %T", v))
		return r
	}
	return Validate(Normalize(m))
}

// ValidateScenario runs every rule against s.
func ValidateScenario(s ScenarioConfig) Report {
	r := newReport()
	if s.BizType == domain.BizIndividual && s.RefundResult.TotalRefund == 0 {
		r.Warnings = append(r.Warnings, MsgZeroRefund)
	}
	if p := s.UserInfo.Phone; p != "" && utf8.RuneCountInString(p) != 11 {
		r.Warnings = append(r.Warnings, MsgPhoneLength)
	}
	if b := s.UserInfo.Birthday; b != "" && utf8.RuneCountInString(b) != 8 {
		r.Errors = append(r.Errors, MsgBirthdayFormat)
	}
	if t := s.TaxpayerInfo.TIN; t != "" && utf8.RuneCountInString(t) != 18 {
		r.Errors = append(r.Errors, MsgTINLength)
	}
	r.Valid = len(r.Errors) == 0
	return r
}
