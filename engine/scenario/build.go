package scenario

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/domain"
)

var amountPrinter = message.NewPrinter(language.English)

// NormalParams configures BuildNormal. Zero values take the documented defaults.
type NormalParams struct {
	UserName           string
	TotalRefund        int64
	BizType            string
	StartupReduction   int64
	EmploymentIncrease int64
	SocialInsurance    int64
}

// ErrorParams configures BuildError. ErrorMsg and Stage are optional.
type ErrorParams struct {
	UserName  string
	ErrorType string
	ErrorMsg  string
	Stage     string
}

// StepParams is one caller-supplied progress step. A nil DelaySeconds means
// DefaultStepDelay.
type StepParams struct {
	StepName     string
	Progress     string
	DelaySeconds *float64
}

// ProgressParams configures BuildProgress.
type ProgressParams struct {
	UserName    string
	TotalRefund int64
	QueueName   string
	Steps       []StepParams
}

// DefaultSteps are used when BuildProgress is given no steps.
func DefaultSteps() []ProgressStep {
	return []ProgressStep{
		{StepName: "홈택스 로그인", Progress: "10%", DelaySeconds: 0.5},
		{StepName: "신고내역 조회", Progress: "30%", DelaySeconds: 1.0},
		{StepName: "환급액 계산", Progress: "60%", DelaySeconds: 1.5},
		{StepName: "결과 생성", Progress: "90%", DelaySeconds: 0.5},
	}
}

// FormatAmount renders n with thousands separators, e.g. 1,500,000.
func FormatAmount(n int64) string {
	return amountPrinter.Sprintf("%d", n)
}

func userOrDefault(name string) string {
	if name == "" {
		return DefaultUserName
	}
	return name
}

func withUser(name string) ScenarioConfig {
	s := Default()
	s.UserInfo.Name = name
	return s
}

// BuildNormal returns a scenario where every stage succeeds.
func BuildNormal(p NormalParams) (ScenarioConfig, error) {
	user := userOrDefault(p.UserName)
	biz := DefaultBizType
	if p.BizType != "" {
		b, err := domain.ParseBizType(p.BizType)
		if err != nil {
			return ScenarioConfig{}, err
		}
		biz = b
	}

	s := withUser(user)
	s.ScenarioName = fmt.Sprintf("정상환급_%s_%d원", user, p.TotalRefund)
	s.Description = fmt.Sprintf("%s의 정상 환급 시나리오 (총 %s원)", user, FormatAmount(p.TotalRefund))
	s.BizType = biz
	s.RefundResult.TotalRefund = p.TotalRefund
	s.RefundResult.StartupReduction = p.StartupReduction
	s.RefundResult.EmploymentIncrease = p.EmploymentIncrease
	s.RefundResult.SocialInsurance = p.SocialInsurance
	return s, nil
}

// BuildError returns a scenario with exactly one failing slot. The kind is
// validated before anything is built.
func BuildError(p ErrorParams) (ScenarioConfig, error) {
	kind, err := domain.ParseErrorKind(p.ErrorType)
	if err != nil {
		return ScenarioConfig{}, err
	}
	stage := domain.DefaultStageFor(kind)
	if p.Stage != "" {
		if stage, err = domain.ParseStage(p.Stage); err != nil {
			return ScenarioConfig{}, err
		}
	}
	msg := p.ErrorMsg
	if msg == "" {
		msg = domain.MessageFor(kind)
	}

	user := userOrDefault(p.UserName)
	s := withUser(user)
	s.ScenarioName = fmt.Sprintf("에러_%s_%s", kind, user)
	s.Description = fmt.Sprintf("%s의 %s 에러 시나리오", user, kind)
	*s.Slot(stage) = ActionConfig{Success: false, ErrorType: string(kind), ErrorMsg: msg}
	return s, nil
}

// BuildProgress returns a scenario with progress reporting enabled.
func BuildProgress(p ProgressParams) (ScenarioConfig, error) {
	steps := DefaultSteps()
	if len(p.Steps) > 0 {
		steps = make([]ProgressStep, 0, len(p.Steps))
		for i, sp := range p.Steps {
			st := ProgressStep{StepName: sp.StepName, Progress: sp.Progress, DelaySeconds: DefaultStepDelay}
			if st.Progress == "" {
				st.Progress = defaultProgressText
			}
			if sp.DelaySeconds != nil {
				if *sp.DelaySeconds < 0 {
					return ScenarioConfig{}, domain.NewParseError(
						fmt.Sprintf("steps[%d].delay_seconds", i), "must be non-negative")
				}
				st.DelaySeconds = *sp.DelaySeconds
			}
			steps = append(steps, st)
		}
	}
	queue := p.QueueName
	if queue == "" {
		queue = DefaultQueueName
	}

	user := userOrDefault(p.UserName)
	s := withUser(user)
	s.ScenarioName = fmt.Sprintf("진행률테스트_%s", user)
	s.Description = fmt.Sprintf("%s의 진행률 전송 테스트 시나리오", user)
	s.RefundResult.TotalRefund = p.TotalRefund
	s.Progress = ProgressConfig{Enabled: true, QueueName: queue, Steps: steps}
	return s, nil
}
