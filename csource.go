package rtkaller

import "strings"

// ToC renders a Program to a single C translation unit: one function per
// task/ISR/hook sequence, each body a straight-line list of the OSEK calls
// it carries, plus extraHeader verbatim at the top. original_source/prog.rs
// leaves the equivalent `to_cprog` as `todo!()` on every type it's defined
// on; the call-sequence shape it operates over is fully specified (spec.md
// §3/§4.1), so this emitter renders that shape directly rather than
// reproducing an unwritten function. Kept deliberately plain: spec.md frames
// "crash triage beyond digest-based deduplication" and elaborate source
// templating as out of scope, so this is a stdlib-only straight-line
// formatter, not a full code generator (justified stdlib use: no C-source
// templating library appears anywhere in the retrieved pack).
func ToC(p *Program, extraHeader string) string {
	var b strings.Builder

	if extraHeader != "" {
		b.WriteString(extraHeader)
		b.WriteString("\n\n")
	}

	for _, h := range p.Hooks.IterHook() {
		writeFunc(&b, hookFuncName(h.Kind), h.Seq)
	}
	for _, isr := range p.ISR {
		writeFunc(&b, isr.Meta.ID, isr.Seq)
	}
	for _, t := range p.Tasks {
		writeFunc(&b, t.ID, t.Seq)
	}

	return b.String()
}

func hookFuncName(kind HookType) string {
	switch kind {
	case HookError:
		return "ErrorHook"
	case HookPreTask:
		return "PreTaskHook"
	case HookPostTask:
		return "PostTaskHook"
	case HookStartup:
		return "StartupHook"
	default:
		return "ShutdownHook"
	}
}

func writeFunc(b *strings.Builder, name string, seq []Call) {
	b.WriteString("void ")
	b.WriteString(name)
	b.WriteString("(void) {\n")
	for _, c := range seq {
		b.WriteString("\t")
		b.WriteString(c.Name)
		b.WriteString("(")
		for i, a := range c.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteString(");\n")
	}
	b.WriteString("}\n\n")
}
