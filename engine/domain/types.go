// Package domain defines the enumerations, error-kind catalog and typed errors
// shared by the scenario engine. Nothing here performs I/O.
package domain

// BizType classifies the taxpayer's business registration.
type BizType string

const (
	BizIndividual BizType = "individual_biz"
	BizNone       BizType = "non_biz"
	BizCorp       BizType = "corp"
)

// ValidBizTypes is the set of recognised business types.
var ValidBizTypes = map[BizType]bool{
	BizIndividual: true, BizNone: true, BizCorp: true,
}

// CertType names the simple-authentication provider the mock user signs in with.
type CertType string

const (
	CertKakao   CertType = "kakao"
	CertNaver   CertType = "naver"
	CertPass    CertType = "pass"
	CertPayco   CertType = "payco"
	CertSamsung CertType = "samsung"
	CertKB      CertType = "kb"
	CertShinhan CertType = "shinhan"
)

// ValidCertTypes is the set of recognised authentication providers.
var ValidCertTypes = map[CertType]bool{
	CertKakao: true, CertNaver: true, CertPass: true, CertPayco: true,
	CertSamsung: true, CertKB: true, CertShinhan: true,
}

// Stage names the point in the mocked filing flow where an outcome is attached.
type Stage string

const (
	StageCertRequest  Stage = "cert_request"
	StageCertResponse Stage = "cert_response"
	StageCheck        Stage = "check"
	StageLoad         Stage = "load"
	StageCalc         Stage = "calc"
)

// SettableStages are the stages a caller may target when building an error
// scenario. StageCalc has no slot of its own.
var SettableStages = []Stage{StageCertRequest, StageCertResponse, StageCheck, StageLoad}

// ValidStages is the set of recognised stages.
var ValidStages = map[Stage]bool{
	StageCertRequest: true, StageCertResponse: true, StageCheck: true,
	StageLoad: true, StageCalc: true,
}

// ParseBizType converts a canonical string into a BizType.
func ParseBizType(s string) (BizType, error) {
	b := BizType(s)
	if !ValidBizTypes[b] {
		return "", NewParseError("biz_type", "unknown business type "+quote(s))
	}
	return b, nil
}

// ParseCertType converts a canonical string into a CertType.
func ParseCertType(s string) (CertType, error) {
	c := CertType(s)
	if !ValidCertTypes[c] {
		return "", NewParseError("cert_type", "unknown cert type "+quote(s))
	}
	return c, nil
}

// ParseStage converts a canonical string into one of the settable stages.
func ParseStage(s string) (Stage, error) {
	for _, st := range SettableStages {
		if string(st) == s {
			return st, nil
		}
	}
	return "", &InvalidStageError{Value: s, Valid: stageStrings(SettableStages)}
}

func stageStrings(stages []Stage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = string(s)
	}
	return out
}
