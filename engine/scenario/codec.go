package scenario

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/domain"
)

// Representation is the plain nested key/value form of a scenario. It is
// what templates contain and what the store persists.
type Representation = map[string]any

// ToRepresentation emits every field. Unset optional strings become nil.
func ToRepresentation(s ScenarioConfig) Representation {
	return Representation{
		"scenario_name":        s.ScenarioName,
		"description":          s.Description,
		"user_info":            userInfoRep(s.UserInfo),
		"taxpayer_info":        taxpayerRep(s.TaxpayerInfo),
		"biz_type":             string(s.BizType),
		"refund_result":        refundRep(s.RefundResult),
		"cert_request_config":  actionRep(s.CertRequest),
		"cert_response_config": actionRep(s.CertResponse),
		"check_config":         actionRep(s.Check),
		"load_config":          actionRep(s.Load),
		"progress_config":      progressRep(s.Progress),
	}
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func userInfoRep(u UserInfo) Representation {
	return Representation{
		"name":      u.Name,
		"phone":     optional(u.Phone),
		"birthday":  optional(u.Birthday),
		"cert_type": optional(string(u.CertType)),
	}
}

func taxpayerRep(t TaxpayerInfo) Representation {
	locs := make([]any, len(t.Locations))
	for i, l := range t.Locations {
		locs[i] = Representation{
			"biz_reg_no": l.BizRegNo,
			"name":       l.Name,
			"address":    l.Address,
		}
	}
	return Representation{
		"tin":           optional(t.TIN),
		"biz_reg_no":    optional(t.BizRegNo),
		"biz_name":      optional(t.BizName),
		"biz_locations": locs,
	}
}

func refundRep(r RefundResult) Representation {
	items := make([]any, len(r.Items))
	for i, it := range r.Items {
		items[i] = Representation{
			"item_name": it.Name,
			"tax_year":  it.TaxYear,
			"amount":    it.Amount,
		}
	}
	return Representation{
		"total_refund": r.TotalRefund,
		"창중감_환급액":      r.StartupReduction,
		"고용증대_환급액":     r.EmploymentIncrease,
		"사회보험료_환급액":    r.SocialInsurance,
		"refund_items": items,
	}
}

func actionRep(a ActionConfig) Representation {
	return Representation{
		"success":    a.Success,
		"error_type": optional(a.ErrorType),
		"error_msg":  optional(a.ErrorMsg),
	}
}

func progressRep(p ProgressConfig) Representation {
	steps := make([]any, len(p.Steps))
	for i, st := range p.Steps {
		steps[i] = Representation{
			"step_name":     st.StepName,
			"progress":      st.Progress,
			"delay_seconds": st.DelaySeconds,
		}
	}
	return Representation{
		"enabled":    p.Enabled,
		"queue_name": p.QueueName,
		"steps":      steps,
	}
}

// FromRepresentation decodes data, applying defaults for absent or null keys.
// Values that cannot be coerced produce a *domain.ParseError naming the field.
func FromRepresentation(data Representation) (ScenarioConfig, error) {
	s := Default()
	r := reader{m: data}

	s.ScenarioName = r.str("scenario_name", "")
	s.Description = r.str("description", "")
	if m, ok := r.obj("user_info"); ok {
		s.UserInfo = readUserInfo(m, "user_info", &r)
	}
	if m, ok := r.obj("taxpayer_info"); ok {
		s.TaxpayerInfo = readTaxpayer(m, "taxpayer_info", &r)
	}
	if v := r.str("biz_type", string(DefaultBizType)); r.err == nil {
		b, err := domain.ParseBizType(v)
		if err != nil {
			r.fail(err.(*domain.ParseError))
		}
		s.BizType = b
	}
	if m, ok := r.obj("refund_result"); ok {
		s.RefundResult = readRefund(m, "refund_result", &r)
	}
	slots := []struct {
		key  string
		dest *ActionConfig
	}{
		{"cert_request_config", &s.CertRequest},
		{"cert_response_config", &s.CertResponse},
		{"check_config", &s.Check},
		{"load_config", &s.Load},
	}
	for _, slot := range slots {
		if m, ok := r.obj(slot.key); ok {
			*slot.dest = readAction(m, slot.key, &r)
		}
	}
	if m, ok := r.obj("progress_config"); ok {
		s.Progress = readProgress(m, "progress_config", &r)
	}

	if r.err != nil {
		return ScenarioConfig{}, r.err
	}
	return s, nil
}

func readUserInfo(m map[string]any, path string, parent *reader) UserInfo {
	r := parent.child(m, path)
	u := UserInfo{
		Name:     r.str("name", DefaultUserName),
		Phone:    r.str("phone", ""),
		Birthday: r.str("birthday", ""),
	}
	// An absent cert_type takes the default; null or "" leaves it unset.
	if _, present := m["cert_type"]; !present {
		u.CertType = DefaultCertType
	} else if v := r.str("cert_type", ""); r.err == nil && v != "" {
		c, err := domain.ParseCertType(v)
		if err != nil {
			r.fail(err.(*domain.ParseError))
		}
		u.CertType = c
	}
	parent.adopt(r)
	return u
}

func readTaxpayer(m map[string]any, path string, parent *reader) TaxpayerInfo {
	r := parent.child(m, path)
	t := TaxpayerInfo{
		TIN:       r.str("tin", ""),
		BizRegNo:  r.str("biz_reg_no", ""),
		BizName:   r.str("biz_name", ""),
		Locations: []BizLocation{},
	}
	for i, lm := range r.objList("biz_locations") {
		lr := r.child(lm, fmt.Sprintf("biz_locations[%d]", i))
		t.Locations = append(t.Locations, BizLocation{
			BizRegNo: lr.str("biz_reg_no", ""),
			Name:     lr.str("name", ""),
			Address:  lr.str("address", ""),
		})
		r.adopt(lr)
	}
	parent.adopt(r)
	return t
}

func readRefund(m map[string]any, path string, parent *reader) RefundResult {
	r := parent.child(m, path)
	out := RefundResult{
		TotalRefund:        r.integer("total_refund", 0),
		StartupReduction:   r.integer("창중감_환급액", 0),
		EmploymentIncrease: r.integer("고용증대_환급액", 0),
		SocialInsurance:    r.integer("사회보험료_환급액", 0),
		Items:              []RefundItem{},
	}
	for i, im := range r.objList("refund_items") {
		ir := r.child(im, fmt.Sprintf("refund_items[%d]", i))
		out.Items = append(out.Items, RefundItem{
			Name:    ir.str("item_name", ""),
			TaxYear: ir.str("tax_year", ""),
			Amount:  ir.integer("amount", 0),
		})
		r.adopt(ir)
	}
	parent.adopt(r)
	return out
}

func readAction(m map[string]any, path string, parent *reader) ActionConfig {
	r := parent.child(m, path)
	a := ActionConfig{
		Success:   r.boolean("success", true),
		ErrorType: r.str("error_type", ""),
		ErrorMsg:  r.str("error_msg", ""),
	}
	parent.adopt(r)
	return a
}

func readProgress(m map[string]any, path string, parent *reader) ProgressConfig {
	r := parent.child(m, path)
	p := ProgressConfig{
		Enabled:   r.boolean("enabled", false),
		QueueName: r.str("queue_name", DefaultQueueName),
		Steps:     []ProgressStep{},
	}
	for i, sm := range r.objList("steps") {
		p.Steps = append(p.Steps, readStep(sm, fmt.Sprintf("steps[%d]", i), &r))
	}
	parent.adopt(r)
	return p
}

func readStep(m map[string]any, path string, parent *reader) ProgressStep {
	r := parent.child(m, path)
	st := ProgressStep{
		StepName:     r.str("step_name", ""),
		Progress:     r.str("progress", defaultProgressText),
		DelaySeconds: r.float("delay_seconds", DefaultStepDelay),
	}
	if r.err == nil && st.DelaySeconds < 0 {
		r.fail(domain.NewParseError("delay_seconds", "must be non-negative"))
	}
	parent.adopt(r)
	return st
}

// reader decodes one object level and keeps the first error seen.
type reader struct {
	m    map[string]any
	path string
	err  *domain.ParseError
}

func (r *reader) child(m map[string]any, key string) reader {
	path := key
	if r.path != "" {
		path = r.path + "." + key
	}
	return reader{m: m, path: path, err: r.err}
}

func (r *reader) adopt(c reader) {
	if r.err == nil && c.err != nil {
		r.err = c.err
	}
}

func (r *reader) fail(e *domain.ParseError) {
	if r.err != nil {
		return
	}
	if r.path != "" {
		e = e.Within(r.path)
	}
	r.err = e
}

func (r *reader) failf(key, format string, args ...any) {
	r.fail(domain.NewParseError(key, fmt.Sprintf(format, args...)))
}

func (r *reader) get(key string) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *reader) str(key, def string) string {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	s, isStr := v.(string)
	if !isStr {
		r.failf(key, "expected string, got %T", v)
		return def
	}
	return s
}

func (r *reader) integer(key string, def int64) int64 {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	n, err := toInt64(v)
	if err != nil {
		r.fail(domain.NewParseError(key, err.Error()))
		return def
	}
	return n
}

func (r *reader) float(key string, def float64) float64 {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	f, err := toFloat64(v)
	if err != nil {
		r.fail(domain.NewParseError(key, err.Error()))
		return def
	}
	return f
}

func (r *reader) boolean(key string, def bool) bool {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err == nil {
			return b
		}
	default:
		if n, err := toInt64(v); err == nil && (n == 0 || n == 1) {
			return n == 1
		}
	}
	r.failf(key, "expected boolean, got %v", v)
	return def
}

func (r *reader) obj(key string) (map[string]any, bool) {
	v, ok := r.get(key)
	if !ok {
		return nil, false
	}
	m, isMap := asMap(v)
	if !isMap {
		r.failf(key, "expected object, got %T", v)
		return nil, false
	}
	return m, true
}

func (r *reader) objList(key string) []map[string]any {
	v, ok := r.get(key)
	if !ok {
		return nil
	}
	list, isList := v.([]any)
	if !isList {
		if typed, isTyped := v.([]Representation); isTyped {
			return typed
		}
		r.failf(key, "expected list, got %T", v)
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for i, item := range list {
		m, isMap := asMap(item)
		if !isMap {
			r.failf(fmt.Sprintf("%s[%d]", key, i), "expected object, got %T", item)
			return nil
		}
		out = append(out, m)
	}
	return out
}

// asMap accepts map[string]any and string-keyed map[any]any.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

// number is satisfied by json.Number from either JSON package.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d out of range", x)
		}
		return int64(x), nil
	case float32:
		return integral(float64(x))
	case float64:
		return integral(x)
	case number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", x.String())
		}
		return integral(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected integer, got %T", v)
}

// MaxExactInteger bounds the floats accepted as integers: every integer up
// to it has an exact float64 form.
const MaxExactInteger = 1 << 53

func integral(f float64) (int64, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) || math.Abs(f) > MaxExactInteger {
		return 0, fmt.Errorf("expected integer, got %v", f)
	}
	return int64(f), nil
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case number:
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", x.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", x)
		}
		return f, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %T", v)
	}
	return float64(n), nil
}

// Marshal renders the textual form of data: sorted keys, two-space indent,
// no HTML escaping. Equal inputs produce identical bytes.
func Marshal(data any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("scenario: marshal: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalScenario renders the textual form of s.
func MarshalScenario(s ScenarioConfig) ([]byte, error) {
	return Marshal(ToRepresentation(s))
}

// ParseText decodes a textual representation. Integral numbers decode as
// int64 so amounts survive without float rounding; the rest as float64.
func ParseText(b []byte) (Representation, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, domain.NewParseError("", "invalid JSON: "+err.Error())
	}
	m, ok := asMap(v)
	if !ok {
		return nil, domain.NewParseError("", fmt.Sprintf("expected object, got %T", v))
	}
	return Normalize(m), nil
}

// Normalize returns a deep copy of data with json.Number values replaced by
// int64 or float64, the forms every store backend can persist natively.
func Normalize(data Representation) Representation {
	if data == nil {
		return nil
	}
	return normalizeValue(data).(map[string]any)
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalizeValue(val)
		}
		return out
	case map[any]any:
		if m, ok := asMap(x); ok {
			return normalizeValue(m)
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalizeValue(val)
		}
		return out
	case number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	}
	return v
}

// Clone deep-copies a representation so callers cannot alias a catalog entry.
func Clone(data Representation) Representation {
	if data == nil {
		return nil
	}
	return cloneValue(data).(Representation)
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = cloneValue(val)
		}
		return out
	case map[any]any:
		if m, ok := asMap(x); ok {
			return cloneValue(m)
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = cloneValue(val)
		}
		return out
	}
	return v
}
