package scenario

import (
	"errors"
	"testing"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/domain"
)

func TestBuildNormal(t *testing.T) {
	s, err := BuildNormal(NormalParams{UserName: "홍길동", TotalRefund: 1500000, BizType: "corp", EmploymentIncrease: 200000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ScenarioName != "정상환급_홍길동_1500000원" {
		t.Fatalf("unexpected name %q", s.ScenarioName)
	}
	if s.Description != "홍길동의 정상 환급 시나리오 (총 1,500,000원)" {
		t.Fatalf("unexpected description %q", s.Description)
	}
	if s.BizType != domain.BizCorp || s.RefundResult.EmploymentIncrease != 200000 || s.RefundResult.StartupReduction != 0 {
		t.Fatalf("unexpected scenario %+v", s)
	}
	for _, st := range domain.SettableStages {
		if !s.Slot(st).Success {
			t.Fatalf("slot %s should succeed", st)
		}
	}
}

func TestBuildNormalDefaults(t *testing.T) {
	s, err := BuildNormal(NormalParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.UserInfo.Name != DefaultUserName || s.BizType != domain.BizIndividual {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.ScenarioName != "정상환급_테스트사용자_0원" {
		t.Fatalf("unexpected name %q", s.ScenarioName)
	}
}

func TestBuildNormalRejectsUnknownBizType(t *testing.T) {
	_, err := BuildNormal(NormalParams{TotalRefund: 1, BizType: "freelancer"})
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestBuildErrorEveryKind(t *testing.T) {
	for _, info := range domain.AllKinds() {
		s, err := BuildError(ErrorParams{ErrorType: string(info.Kind)})
		if err != nil {
			t.Fatalf("%s: %v", info.Kind, err)
		}
		failing := 0
		for _, st := range domain.SettableStages {
			slot := s.Slot(st)
			if slot.Success {
				continue
			}
			failing++
			if st != info.DefaultStage {
				t.Errorf("%s: failing slot %s, want %s", info.Kind, st, info.DefaultStage)
			}
			if slot.ErrorType != string(info.Kind) || slot.ErrorMsg != info.Message {
				t.Errorf("%s: unexpected slot %+v", info.Kind, slot)
			}
		}
		if failing != 1 {
			t.Errorf("%s: expected exactly one failing slot, got %d", info.Kind, failing)
		}
	}
}

func TestBuildErrorOverrides(t *testing.T) {
	s, err := BuildError(ErrorParams{UserName: "이영희", ErrorType: "세션만료", ErrorMsg: "custom", Stage: "cert_request"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CertRequest.Success || s.CertRequest.ErrorMsg != "custom" || !s.Check.Success {
		t.Fatalf("unexpected slots: %+v", s)
	}
	if s.ScenarioName != "에러_세션만료_이영희" || s.Description != "이영희의 세션만료 에러 시나리오" {
		t.Fatalf("unexpected naming: %q %q", s.ScenarioName, s.Description)
	}
}

func TestBuildErrorRejectsUnknownKind(t *testing.T) {
	s, err := BuildError(ErrorParams{ErrorType: "없는에러"})
	var uk *domain.UnknownErrorKindError
	if !errors.As(err, &uk) {
		t.Fatalf("expected *UnknownErrorKindError, got %v", err)
	}
	if uk.Error() != "Unknown error type: 없는에러" || len(uk.Valid) != 11 {
		t.Fatalf("unexpected error %v %v", uk, uk.Valid)
	}
	if s.ScenarioName != "" {
		t.Fatal("nothing should be built on rejection")
	}
}

func TestBuildErrorRejectsInvalidStage(t *testing.T) {
	for _, stage := range []string{"calc", "upload"} {
		_, err := BuildError(ErrorParams{ErrorType: "계산오류", Stage: stage})
		if !errors.Is(err, domain.ErrInvalidStage) {
			t.Fatalf("stage %q: expected ErrInvalidStage, got %v", stage, err)
		}
	}
}

func TestCalcStageResolvesToLoadSlot(t *testing.T) {
	s := Default()
	if s.Slot(domain.StageCalc) != &s.Load {
		t.Fatal("calc should resolve to the load slot")
	}
	if s.Slot(domain.Stage("nope")) != nil {
		t.Fatal("unknown stage should have no slot")
	}
}

func TestBuildProgressDefaultSteps(t *testing.T) {
	s, err := BuildProgress(ProgressParams{TotalRefund: 500000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Progress.Enabled || s.Progress.QueueName != "refund-search.fifo" {
		t.Fatalf("unexpected progress config %+v", s.Progress)
	}
	want := []float64{0.5, 1.0, 1.5, 0.5}
	if len(s.Progress.Steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(s.Progress.Steps))
	}
	for i, st := range s.Progress.Steps {
		if st.DelaySeconds != want[i] {
			t.Errorf("step %d: expected delay %v, got %v", i, want[i], st.DelaySeconds)
		}
	}
	if s.Progress.Steps[0].StepName != "홈택스 로그인" || s.Progress.Steps[3].Progress != "90%" {
		t.Fatalf("unexpected steps %+v", s.Progress.Steps)
	}
	if s.ScenarioName != "진행률테스트_테스트사용자" || s.RefundResult.TotalRefund != 500000 {
		t.Fatalf("unexpected scenario %+v", s)
	}
}

func TestBuildProgressSuppliedSteps(t *testing.T) {
	two := 2.0
	s, err := BuildProgress(ProgressParams{
		QueueName: "custom.fifo",
		Steps: []StepParams{
			{StepName: "b", Progress: "50%", DelaySeconds: &two},
			{StepName: "a"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	steps := s.Progress.Steps
	if len(steps) != 2 || steps[0].StepName != "b" || steps[1].StepName != "a" {
		t.Fatalf("order not preserved: %+v", steps)
	}
	if steps[0].DelaySeconds != 2 || steps[1].DelaySeconds != 0.5 || steps[1].Progress != "0%" {
		t.Fatalf("unexpected defaults: %+v", steps)
	}
	if s.Progress.QueueName != "custom.fifo" {
		t.Fatalf("unexpected queue %q", s.Progress.QueueName)
	}
}

func TestBuildProgressRejectsNegativeDelay(t *testing.T) {
	neg := -0.1
	_, err := BuildProgress(ProgressParams{Steps: []StepParams{{StepName: "x", DelaySeconds: &neg}}})
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1,000", 12345678: "12,345,678"}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Errorf("FormatAmount(%d) = %q, want %q", in, got, want)
		}
	}
}
