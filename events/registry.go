package events

import (
	notify "github.com/bitly/go-notify"
)

// Registry is a named-channel pub/sub surface handed to sensor and
// mechanism managers at registration time. Events are namespaced per
// registry so that two simulations in the same process do not cross-talk.
type Registry struct {
	namespace string
}

func NewRegistry(namespace string) *Registry {
	return &Registry{
		namespace: namespace,
	}
}

func (registry *Registry) scoped(event string) string {
	return registry.namespace + ":" + event
}

func (registry *Registry) Publish(event string, payload interface{}) {
	notify.Post(registry.scoped(event), payload)
}

func (registry *Registry) Subscribe(event string, outputChan chan interface{}) {
	notify.Start(registry.scoped(event), outputChan)
}

func (registry *Registry) Unsubscribe(event string, outputChan chan interface{}) error {
	return notify.Stop(registry.scoped(event), outputChan)
}
