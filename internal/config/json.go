package config

import (
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
)

// OptGroups renders as a list of [group, opts] pairs. The default group
// is written as null.
type OptGroups []OptGroup

func (o Opt) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"name":`)
	out.String(o.Name)
	out.RawString(`,"type":`)
	out.String(o.Type)
	out.RawString(`,"default":`)
	out.String(o.Default)
	out.RawString(`,"help":`)
	out.String(o.Help)
	if len(o.Choices) > 0 {
		out.RawString(`,"choices":[`)
		for i, c := range o.Choices {
			if i > 0 {
				out.RawByte(',')
			}
			out.String(c)
		}
		out.RawByte(']')
	}
	out.RawByte('}')
}

func (g OptGroup) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawByte('[')
	if g.Name == DefaultGroup {
		out.RawString("null")
	} else {
		out.String(g.Name)
	}
	out.RawString(",[")
	for i, o := range g.Opts {
		if i > 0 {
			out.RawByte(',')
		}
		o.MarshalEasyJSON(out)
	}
	out.RawString("]]")
}

func (gs OptGroups) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawByte('[')
	for i, g := range gs {
		if i > 0 {
			out.RawByte(',')
		}
		g.MarshalEasyJSON(out)
	}
	out.RawByte(']')
}

func (o Opt) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(o)
}

func (g OptGroup) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(g)
}

func (gs OptGroups) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(gs)
}
