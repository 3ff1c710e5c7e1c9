package core

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/dom"
	"github.com/go-drift/ripple/pkg/errors"
)

// AppendTo mounts the instance as the last child of parent.
func (i *Instance) AppendTo(parent *html.Node) error {
	if err := i.checkAlive("AppendTo"); err != nil {
		return err
	}
	dom.Append(parent, i.root)
	i.didMount()
	return nil
}

// ReplaceNode mounts the instance in place of target.
func (i *Instance) ReplaceNode(target *html.Node) error {
	if err := i.checkAlive("ReplaceNode"); err != nil {
		return err
	}
	if target.Parent == nil {
		return fmt.Errorf("core: replace a detached node")
	}
	dom.Replace(target, i.root)
	i.didMount()
	return nil
}

// Before mounts the instance as the previous sibling of ref.
func (i *Instance) Before(ref *html.Node) error {
	if err := i.checkAlive("Before"); err != nil {
		return err
	}
	if err := dom.InsertBefore(ref, i.root); err != nil {
		return err
	}
	i.didMount()
	return nil
}

// After mounts the instance as the next sibling of ref.
func (i *Instance) After(ref *html.Node) error {
	if err := i.checkAlive("After"); err != nil {
		return err
	}
	if err := dom.InsertAfter(ref, i.root); err != nil {
		return err
	}
	i.didMount()
	return nil
}

// Remove unmounts the instance. The rendered tree and bindings are kept, so
// the instance can be mounted again.
func (i *Instance) Remove() {
	dom.Remove(i.root)
	if !i.mounted {
		return
	}
	i.mounted = false
	runHooks(i.def.onUnmount, i)
	i.Emit("unmount")
}

// Mounted reports whether the instance was mounted and not removed since.
func (i *Instance) Mounted() bool {
	return i.mounted
}

func (i *Instance) didMount() {
	if i.mounted {
		return
	}
	i.mounted = true
	runHooks(i.def.onMount, i)
	i.Emit("mount")
}

func (i *Instance) checkAlive(op string) error {
	if i.Destroyed() {
		return fmt.Errorf("core: %s %s: %w", op, i.def.name, errors.ErrDestroyed)
	}
	return nil
}
