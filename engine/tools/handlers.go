package tools

import (
	"context"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/assign"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/catalog"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/domain"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/fn"
)

// Tool names.
const (
	ToolTemplateList   = "template_list"
	ToolTemplateLoad   = "template_load"
	ToolBuildNormal    = "scenario_build_normal"
	ToolBuildError     = "scenario_build_error"
	ToolBuildProgress  = "scenario_build_progress"
	ToolValidate       = "scenario_validate"
	ToolAssign         = "scenario_assign"
	ToolUnassign       = "scenario_unassign"
	ToolErrorTypesList = "error_types_list"
)

// Korean argument names of the refund breakdown.
const (
	argStartupReduction   = "창중감_환급액"
	argEmploymentIncrease = "고용증대_환급액"
	argSocialInsurance    = "사회보험료_환급액"
)

func object(props map[string]any, required ...string) map[string]any {
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func prop(typ, desc string, extra ...any) map[string]any {
	p := map[string]any{"type": typ}
	if desc != "" {
		p["description"] = desc
	}
	for i := 0; i+1 < len(extra); i += 2 {
		p[extra[i].(string)] = extra[i+1]
	}
	return p
}

func userNameProp() map[string]any {
	return prop("string", "사용자 이름", "default", scenario.DefaultUserName)
}

func stageValues() []string {
	return fn.Map(domain.SettableStages, func(s domain.Stage) string { return string(s) })
}

func (r *Registry) definitions() []Tool {
	return []Tool{
		{
			Name:        ToolTemplateList,
			Description: "사용 가능한 시나리오 템플릿 목록을 조회합니다.",
			InputSchema: object(map[string]any{
				"category": prop("string", "템플릿 카테고리 (normal, error, corp, all)",
					"enum", []string{catalog.CategoryNormal, catalog.CategoryError, catalog.CategoryCorp, catalog.CategoryAll},
					"default", catalog.CategoryAll),
			}),
			handler: r.templateList,
		},
		{
			Name:        ToolTemplateLoad,
			Description: "특정 템플릿을 로드하여 상세 내용을 확인합니다.",
			InputSchema: object(map[string]any{
				"template_id": prop("string", "템플릿 ID (예: TPL_NORMAL_BIZ_HIGH)"),
			}, "template_id"),
			handler: r.templateLoad,
		},
		{
			Name:        ToolBuildNormal,
			Description: "정상 환급 시나리오를 생성합니다.",
			InputSchema: object(map[string]any{
				"user_name":    userNameProp(),
				"total_refund": prop("integer", "총 환급액 (원)"),
				"biz_type": prop("string", "사업자 유형",
					"enum", []string{string(domain.BizIndividual), string(domain.BizNone), string(domain.BizCorp)},
					"default", string(scenario.DefaultBizType)),
				argStartupReduction:   prop("integer", "창업중소기업감면 환급액", "default", 0),
				argEmploymentIncrease: prop("integer", "고용증대 환급액", "default", 0),
				argSocialInsurance:    prop("integer", "사회보험료 환급액", "default", 0),
			}, "total_refund"),
			handler: r.buildNormal,
		},
		{
			Name:        ToolBuildError,
			Description: "에러 시나리오를 생성합니다.",
			InputSchema: object(map[string]any{
				"user_name":  userNameProp(),
				"error_type": prop("string", "에러 타입", "enum", domain.KindValues()),
				"error_msg":  prop("string", "에러 메시지 (미입력시 기본 메시지 사용)"),
				"action": prop("string", "에러 발생 액션",
					"enum", stageValues(), "default", string(domain.StageLoad)),
			}, "error_type"),
			handler: r.buildError,
		},
		{
			Name:        ToolBuildProgress,
			Description: "진행률 전송을 포함한 시나리오를 생성합니다.",
			InputSchema: object(map[string]any{
				"user_name":    userNameProp(),
				"total_refund": prop("integer", "총 환급액 (원)"),
				"queue_name":   prop("string", "SQS 큐 이름", "default", scenario.DefaultQueueName),
				"steps": prop("array", "진행률 단계 목록", "items", object(map[string]any{
					"step_name":     prop("string", ""),
					"progress":      prop("string", ""),
					"delay_seconds": prop("number", "", "default", scenario.DefaultStepDelay),
				}, "step_name", "progress")),
			}, "total_refund"),
			handler: r.buildProgress,
		},
		{
			Name:        ToolValidate,
			Description: "시나리오 유효성을 검사합니다.",
			InputSchema: object(map[string]any{
				"scenario": prop("object", "검사할 시나리오 객체"),
			}, "scenario"),
			handler: r.validate,
		},
		{
			Name:        ToolAssign,
			Description: "시나리오를 특정 user_ern에 할당합니다 (DynamoDB에 저장).",
			InputSchema: object(map[string]any{
				"user_ern":    prop("string", "사용자 ERN"),
				"scenario":    prop("object", "할당할 시나리오 객체"),
				"template_id": prop("string", "사용할 템플릿 ID (scenario 미입력시)"),
			}, "user_ern"),
			handler: r.assign,
		},
		{
			Name:        ToolUnassign,
			Description: "user_ern에서 시나리오 할당을 해제합니다.",
			InputSchema: object(map[string]any{
				"user_ern": prop("string", "사용자 ERN"),
			}, "user_ern"),
			handler: r.unassign,
		},
		{
			Name:        ToolErrorTypesList,
			Description: "지원하는 에러 타입 목록을 조회합니다.",
			InputSchema: object(map[string]any{}),
			handler: func(context.Context, Args) (any, error) {
				return errorTypes(), nil
			},
		},
	}
}

func (r *Registry) templateList(_ context.Context, a Args) (any, error) {
	category, err := a.str("category", catalog.CategoryAll)
	if err != nil {
		return nil, err
	}
	sums, err := catalog.List(r.catalog, category)
	if err != nil {
		return nil, err
	}
	return map[string]any{"templates": sums, "count": len(sums)}, nil
}

func (r *Registry) templateLoad(_ context.Context, a Args) (any, error) {
	id, err := a.str("template_id", "")
	if err != nil {
		return nil, err
	}
	return catalog.Load(r.catalog, id)
}

func (r *Registry) buildNormal(_ context.Context, a Args) (any, error) {
	var (
		p   scenario.NormalParams
		err error
	)
	if p.UserName, err = a.str("user_name", ""); err != nil {
		return nil, err
	}
	if p.TotalRefund, err = a.integer("total_refund", 0); err != nil {
		return nil, err
	}
	if p.BizType, err = a.str("biz_type", ""); err != nil {
		return nil, err
	}
	if p.StartupReduction, err = a.integer(argStartupReduction, 0); err != nil {
		return nil, err
	}
	if p.EmploymentIncrease, err = a.integer(argEmploymentIncrease, 0); err != nil {
		return nil, err
	}
	if p.SocialInsurance, err = a.integer(argSocialInsurance, 0); err != nil {
		return nil, err
	}
	s, err := scenario.BuildNormal(p)
	if err != nil {
		return nil, err
	}
	return scenario.ToRepresentation(s), nil
}

func (r *Registry) buildError(_ context.Context, a Args) (any, error) {
	var (
		p   scenario.ErrorParams
		err error
	)
	if p.UserName, err = a.str("user_name", ""); err != nil {
		return nil, err
	}
	if p.ErrorType, err = a.str("error_type", ""); err != nil {
		return nil, err
	}
	if p.ErrorMsg, err = a.str("error_msg", ""); err != nil {
		return nil, err
	}
	if p.Stage, err = a.str("action", ""); err != nil {
		return nil, err
	}
	s, err := scenario.BuildError(p)
	if err != nil {
		return nil, err
	}
	return scenario.ToRepresentation(s), nil
}

func (r *Registry) buildProgress(_ context.Context, a Args) (any, error) {
	var (
		p   scenario.ProgressParams
		err error
	)
	if p.UserName, err = a.str("user_name", ""); err != nil {
		return nil, err
	}
	if p.TotalRefund, err = a.integer("total_refund", 0); err != nil {
		return nil, err
	}
	if p.QueueName, err = a.str("queue_name", ""); err != nil {
		return nil, err
	}
	steps, err := a.objects("steps")
	if err != nil {
		return nil, err
	}
	for _, st := range steps {
		var sp scenario.StepParams
		if sp.StepName, err = st.str("step_name", ""); err != nil {
			return nil, err
		}
		if sp.Progress, err = st.str("progress", ""); err != nil {
			return nil, err
		}
		if sp.DelaySeconds, err = st.number("delay_seconds"); err != nil {
			return nil, err
		}
		p.Steps = append(p.Steps, sp)
	}
	s, err := scenario.BuildProgress(p)
	if err != nil {
		return nil, err
	}
	return scenario.ToRepresentation(s), nil
}

func (r *Registry) validate(_ context.Context, a Args) (any, error) {
	v, ok := a.present("scenario")
	if !ok {
		return scenario.Validate(scenario.Representation{}), nil
	}
	return scenario.ValidateValue(v), nil
}

func (r *Registry) assign(ctx context.Context, a Args) (any, error) {
	var (
		req assign.Request
		err error
	)
	if req.ExternalID, err = a.str("user_ern", ""); err != nil {
		return nil, err
	}
	if req.Scenario, err = a.object("scenario"); err != nil {
		return nil, err
	}
	if req.TemplateID, err = a.str("template_id", ""); err != nil {
		return nil, err
	}
	res, err := r.assigner.Assign(ctx, req)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Registry) unassign(ctx context.Context, a Args) (any, error) {
	ern, err := a.str("user_ern", "")
	if err != nil {
		return nil, err
	}
	res, err := r.assigner.Unassign(ctx, ern)
	if err != nil {
		return nil, err
	}
	return res, nil
}
