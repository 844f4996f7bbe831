package tokenizer

// stateVerbs is the closed list of verbs treated as states rather than
// actionable tasks: existence, ability, cognition, perception, necessity.
var stateVerbs = map[string]struct{}{
	// existence
	"ある": {}, "いる": {}, "おる": {}, "ござる": {}, "存在する": {},
	// ability
	"できる": {}, "出来る": {},
	// cognition
	"わかる": {}, "分かる": {}, "知る": {}, "思う": {}, "考える": {}, "存ずる": {}, "覚える": {},
	// perception
	"見える": {}, "聞こえる": {}, "感じる": {}, "思える": {},
	// necessity
	"要る": {},
}

// IsStateVerb reports whether baseForm is on the state-verb list.
func IsStateVerb(baseForm string) bool {
	_, ok := stateVerbs[baseForm]
	return ok
}
