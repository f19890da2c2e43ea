package actions

import (
	"sort"

	"github.com/cloudwego/eino/schema"
)

// Action names accepted by the engine.
const (
	NameShowFoodMenu         = "show_food_menu"
	NameShowCategoryItems    = "show_category_items"
	NameShowMomoVarieties    = "show_momo_varieties"
	NameAddItemByName        = "add_item_by_name"
	NameAddToCart            = "add_to_cart"
	NameShowCartOptions      = "show_cart_options"
	NameConfirmOrder         = "confirm_order"
	NameProcessOrderResponse = "process_order_response"
	NameSelectServiceType    = "select_service_type"
	NameProvideLocation      = "provide_location"
	NameCapturePartySize     = "capture_party_size"
	NameCaptureArrivalTime   = "capture_arrival_time"
	NameConfirmDeposit       = "confirm_deposit"
	NameShowPaymentOptions   = "show_payment_options"
	NameProcessPayment       = "process_payment"
	NameShowOrderHistory     = "show_order_history"
	NameRecommendFood        = "recommend_food"
	NameShowWelcome          = "show_welcome"
	NameSendTextReply        = "send_text_reply"
)

type ArgType string

const (
	TypeString  ArgType = "string"
	TypeInteger ArgType = "integer"
	TypeNumber  ArgType = "number"
	TypeArray   ArgType = "array"
)

// Bounds limits a numeric argument (inclusive) or a string's length.
type Bounds struct {
	Min int
	Max int
}

// ArgSpec describes one argument of an action.
type ArgSpec struct {
	Field    string
	Type     ArgType
	Required bool
	Enum     []string
	Desc     string
	// Bounds applies to integers (value) and strings (rune length); nil means unbounded.
	Bounds *Bounds
	// Prompt is the user-facing message sent when the argument is missing or invalid.
	Prompt string
	// Items describes the object elements of an array argument.
	Items []ArgSpec
}

// Entry is one registered action.
type Entry struct {
	Name         string
	Description  string
	ModelVisible bool
	Args         []ArgSpec
}

// Arg returns the spec for field.
func (e Entry) Arg(field string) (ArgSpec, bool) {
	for _, a := range e.Args {
		if a.Field == field {
			return a, true
		}
	}
	return ArgSpec{}, false
}

// Registry is the fixed, read-only set of actions. Build it once with
// Default and share it.
type Registry struct {
	entries []Entry
	index   map[string]int
}

func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := r.index[e.Name]; dup {
			continue
		}
		r.index[e.Name] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Entries returns a copy of all entries in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// ModelTools returns the tool palette offered to the classifier model.
func (r *Registry) ModelTools() []*schema.ToolInfo {
	tools := make([]*schema.ToolInfo, 0, len(r.entries))
	for _, e := range r.entries {
		if !e.ModelVisible {
			continue
		}
		info := &schema.ToolInfo{Name: e.Name, Desc: e.Description}
		if len(e.Args) > 0 {
			info.ParamsOneOf = schema.NewParamsOneOfByParams(paramsOf(e.Args))
		}
		tools = append(tools, info)
	}
	return tools
}

func paramsOf(args []ArgSpec) map[string]*schema.ParameterInfo {
	params := make(map[string]*schema.ParameterInfo, len(args))
	for _, a := range args {
		params[a.Field] = paramOf(a)
	}
	return params
}

func paramOf(a ArgSpec) *schema.ParameterInfo {
	p := &schema.ParameterInfo{
		Desc:     a.Desc,
		Required: a.Required,
	}
	switch a.Type {
	case TypeString:
		p.Type = schema.String
		if len(a.Enum) > 0 {
			p.Enum = append([]string{}, a.Enum...)
		}
	case TypeInteger:
		p.Type = schema.Integer
	case TypeNumber:
		p.Type = schema.Number
	case TypeArray:
		p.Type = schema.Array
		p.ElemInfo = &schema.ParameterInfo{
			Type:      schema.Object,
			SubParams: paramsOf(a.Items),
		}
	}
	return p
}

// Names returns every registered action name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}
