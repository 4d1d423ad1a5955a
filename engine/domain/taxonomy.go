package domain

import "fmt"

// ErrorKind is a simulated failure category. Values are the canonical labels
// stored in existing fixtures and must not change.
type ErrorKind string

const (
	// load stage
	KindNoTaxReturn     ErrorKind = "종소세신고내역없음"
	KindNoBiz           ErrorKind = "사업자없음오류"
	KindCalcError       ErrorKind = "계산오류"
	KindAlreadyRefunded ErrorKind = "기환급자"
	KindNotComplete     ErrorKind = "미완료"
	KindNoContinuingBiz ErrorKind = "계속사업자없음"

	// authentication
	KindAuthExpired     ErrorKind = "간편인증토큰만료"
	KindAuthNotComplete ErrorKind = "간편인증미완료"
	KindLoginFailed     ErrorKind = "홈택스로그인실패"
	KindSessionExpired  ErrorKind = "세션만료"
	KindInvalidSSN      ErrorKind = "주민번호오류"
)

// KindInfo is one catalog row.
type KindInfo struct {
	Kind         ErrorKind `json:"type"`
	Message      string    `json:"message"`
	DefaultStage Stage     `json:"default_action"`
}

// catalog is ordered; AllKinds and UnknownErrorKindError.Valid follow this order.
var catalog = []KindInfo{
	{KindNoTaxReturn, "종합소득세 신고 내역이 없습니다.", StageLoad},
	{KindNoBiz, "사업자 등록 정보가 없습니다.", StageLoad},
	{KindCalcError, "환급액 계산 중 오류가 발생했습니다.", StageLoad},
	{KindAlreadyRefunded, "이미 환급 처리가 완료된 건입니다.", StageLoad},
	{KindNotComplete, "처리가 완료되지 않았습니다.", StageLoad},
	{KindNoContinuingBiz, "계속사업자 정보가 없습니다.", StageLoad},
	{KindAuthExpired, "간편인증 토큰이 만료되었습니다.", StageCertResponse},
	{KindAuthNotComplete, "간편인증이 완료되지 않았습니다.", StageCertResponse},
	{KindLoginFailed, "홈택스 로그인에 실패했습니다.", StageCheck},
	{KindSessionExpired, "세션이 만료되었습니다.", StageCheck},
	{KindInvalidSSN, "주민등록번호가 올바르지 않습니다.", StageCheck},
}

var byKind = func() map[ErrorKind]KindInfo {
	m := make(map[ErrorKind]KindInfo, len(catalog))
	for _, info := range catalog {
		m[info.Kind] = info
	}
	return m
}()

func lookup(kind ErrorKind) KindInfo {
	info, ok := byKind[kind]
	if !ok || info.Message == "" || info.DefaultStage == "" {
		panic(fmt.Sprintf("domain: error kind %q missing from catalog", kind))
	}
	return info
}

// MessageFor returns the canonical message for kind. It panics when kind is
// not in the catalog; use ParseErrorKind on untrusted input first.
func MessageFor(kind ErrorKind) string { return lookup(kind).Message }

// DefaultStageFor returns the stage kind is conventionally attached to.
// Same completeness contract as MessageFor.
func DefaultStageFor(kind ErrorKind) Stage { return lookup(kind).DefaultStage }

// AllKinds returns the full catalog in declaration order.
func AllKinds() []KindInfo {
	out := make([]KindInfo, len(catalog))
	copy(out, catalog)
	return out
}

// KindValues returns the canonical labels in declaration order.
func KindValues() []string {
	out := make([]string, len(catalog))
	for i, info := range catalog {
		out[i] = string(info.Kind)
	}
	return out
}

// ParseErrorKind validates an untrusted error_type string.
func ParseErrorKind(s string) (ErrorKind, error) {
	kind := ErrorKind(s)
	if _, ok := byKind[kind]; !ok {
		return "", &UnknownErrorKindError{Value: s, Valid: KindValues()}
	}
	return kind, nil
}
