package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/dom"
)

// isEventHandler returns true if the prop key names an event listener.
func isEventHandler(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on")
}

// eventName maps "onClick" to "click".
func eventName(key string) string {
	return strings.ToLower(key[2:])
}

// sortedKeys returns the keys of p in lexical order.
func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// setProp applies one prop to el.
func setProp(el dom.Element, key string, value any) error {
	if isEventHandler(key) {
		l, err := toListener(key, value)
		if err != nil {
			return err
		}
		el.AddEventListener(eventName(key), l)
		return nil
	}
	el.SetAttribute(key, propToString(value))
	return nil
}

// removeProp undoes one prop on el.
func removeProp(el dom.Element, key string) {
	if isEventHandler(key) {
		el.RemoveEventListener(eventName(key))
		return
	}
	el.RemoveAttribute(key)
}

// toListener converts the accepted handler shapes to a dom.Listener.
func toListener(key string, v any) (dom.Listener, error) {
	switch h := v.(type) {
	case dom.Listener:
		if h != nil {
			return h, nil
		}
	case func(*dom.Event):
		if h != nil {
			return h, nil
		}
	case func():
		if h != nil {
			return func(*dom.Event) { h() }, nil
		}
	case func(string):
		if h != nil {
			return func(ev *dom.Event) { h(ev.Value) }, nil
		}
	}
	return nil, errors.New("R003").WithDetailf("prop %q holds %T", key, v)
}

// propsEqual compares two prop values for equality. Functions are never
// equal, so a re-rendered handler always replaces the previous one.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// propToString converts a prop value to its attribute form.
func propToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
