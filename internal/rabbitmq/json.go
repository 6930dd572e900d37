package rabbitmq

import (
	"encoding/json"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
)

func writeArguments(out *jwriter.Writer, args map[string]interface{}) {
	if len(args) == 0 {
		out.RawString("{}")
		return
	}
	out.Raw(json.Marshal(args))
}

func (e Exchange) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"name":`)
	out.String(e.Name)
	out.RawString(`,"type":`)
	out.String(e.Type)
	out.RawString(`,"durable":`)
	out.Bool(e.Durable)
	out.RawString(`,"auto_delete":`)
	out.Bool(e.AutoDelete)
	out.RawString(`,"internal":`)
	out.Bool(e.Internal)
	out.RawString(`,"arguments":`)
	writeArguments(out, e.Arguments)
	out.RawByte('}')
}

func (q Queue) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"name":`)
	out.String(q.Name)
	out.RawString(`,"exchange":`)
	q.Exchange.MarshalEasyJSON(out)
	out.RawString(`,"routing_key":`)
	out.String(q.RoutingKey)
	out.RawString(`,"durable":`)
	out.Bool(q.Durable)
	out.RawString(`,"auto_delete":`)
	out.Bool(q.AutoDelete)
	out.RawString(`,"exclusive":`)
	out.Bool(q.Exclusive)
	out.RawString(`,"delivery_mode":`)
	out.Uint8(q.DeliveryMode)
	out.RawString(`,"arguments":`)
	writeArguments(out, q.Arguments)
	out.RawByte('}')
}

func (b Binding) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"source":`)
	out.String(b.Source)
	out.RawString(`,"destination":`)
	out.String(b.Destination)
	out.RawString(`,"routing_key":`)
	out.String(b.RoutingKey)
	out.RawString(`,"type":`)
	out.String(b.Type)
	out.RawString(`,"arguments":`)
	writeArguments(out, b.Arguments)
	out.RawByte('}')
}

func (d Definition) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"exchanges":[`)
	for i, e := range d.Exchanges {
		if i > 0 {
			out.RawByte(',')
		}
		e.MarshalEasyJSON(out)
	}
	out.RawString(`],"queues":[`)
	for i, q := range d.Queues {
		if i > 0 {
			out.RawByte(',')
		}
		q.MarshalEasyJSON(out)
	}
	out.RawString(`],"bindings":[`)
	for i, b := range d.Bindings {
		if i > 0 {
			out.RawByte(',')
		}
		b.MarshalEasyJSON(out)
	}
	out.RawString(`]}`)
}

func (e Exchange) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(e)
}

func (q Queue) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(q)
}

func (b Binding) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(b)
}

func (d Definition) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(d)
}
