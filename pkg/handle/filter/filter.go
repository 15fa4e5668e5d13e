/*
 * Copyright 2024-2025 by the Warden authors
 * https://github.com/kradscan/warden
 * All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package filter implements the handle filter pipeline: a mutable,
// builder-style chain of narrowing operations over a Handle Context
// list. Internal storage is a deque rather than a slice so that a
// narrowing pass over a large (50k+) snapshot can walk one deque and
// push survivors onto a second, instead of repeatedly compacting a
// slice in place.
package filter

import (
	"github.com/gammazero/deque"
	log "github.com/sirupsen/logrus"

	"github.com/kradscan/warden/pkg/handle"
)

// Pipeline is a chain of composable narrowing operations over Handle
// Contexts. Every builder method mutates the pipeline in place and
// returns it, so calls can be chained fluently. Methods that make OS
// calls log and drop an entry on error rather than aborting the
// pipeline - the only fatal failure in the whole scan is a snapshot
// or allocation failure, which never reaches this package.
type Pipeline struct {
	entries *deque.Deque
}

// New builds a pipeline seeded with entries. Each Entry is wrapped in
// its own Context with no enrichment yet.
func New(entries []handle.Entry) *Pipeline {
	d := deque.New(len(entries))
	for i := range entries {
		d.PushBack(&handle.Context{Raw: entries[i]})
	}
	return &Pipeline{entries: d}
}

// NewFromContexts builds a pipeline directly from already-constructed
// contexts - used by tests and by callers re-entering the pipeline
// after enrichment.
func NewFromContexts(contexts []*handle.Context) *Pipeline {
	d := deque.New(len(contexts))
	for _, c := range contexts {
		d.PushBack(c)
	}
	return &Pipeline{entries: d}
}

// Contexts copies the pipeline's current contents into a slice,
// preserving order. The pipeline remains usable afterward - Contexts
// does not consume the deque, it copies out of it.
func (p *Pipeline) Contexts() []*handle.Context {
	out := make([]*handle.Context, 0, p.entries.Len())
	for i := 0; i < p.entries.Len(); i++ {
		out = append(out, p.entries.At(i).(*handle.Context))
	}
	return out
}

// Len reports how many contexts currently survive in the pipeline.
func (p *Pipeline) Len() int { return p.entries.Len() }

// retain rebuilds the pipeline's deque keeping only the contexts for
// which keep returns true, preserving relative order.
func (p *Pipeline) retain(keep func(*handle.Context) bool) *Pipeline {
	survivors := deque.New(p.entries.Len())
	for i := 0; i < p.entries.Len(); i++ {
		c := p.entries.At(i).(*handle.Context)
		if keep(c) {
			survivors.PushBack(c)
		}
	}
	p.entries = survivors
	return p
}

// ByType keeps entries whose object-type tag equals tag.
func (p *Pipeline) ByType(tag handle.Tag) *Pipeline {
	return p.retain(func(c *handle.Context) bool {
		return handle.Tag(c.Raw.TypeIndex) == tag
	})
}

// ByOwnerPID keeps entries owned by pid.
func (p *Pipeline) ByOwnerPID(pid uint16) *Pipeline {
	return p.retain(func(c *handle.Context) bool {
		return c.Raw.OwnerPID == pid
	})
}

// ExcludeSelf drops entries owned by selfPID. Must run before any
// other filter that would otherwise have a chance to reintroduce the
// scanner's own handles.
func (p *Pipeline) ExcludeSelf(selfPID uint16) *Pipeline {
	return p.retain(func(c *handle.Context) bool {
		return c.Raw.OwnerPID != selfPID
	})
}

// ByAccessMaskRequired keeps entries whose granted access mask
// contains every bit in mask.
func (p *Pipeline) ByAccessMaskRequired(mask uint32) *Pipeline {
	return p.retain(func(c *handle.Context) bool {
		return c.Raw.GrantedAccess&mask == mask
	})
}

// SuspiciousOnly keeps entries whose access mask is at least as
// strong as full access or simultaneous read+write - the minimum
// rights a memory-reading/writing cheat requires.
func (p *Pipeline) SuspiciousOnly() *Pipeline {
	return p.retain(func(c *handle.Context) bool {
		return handle.IsSuspicious(c.Raw.GrantedAccess)
	})
}

// Enrich runs handle.Enrich over the surviving contexts in place.
func (p *Pipeline) Enrich() *Pipeline {
	contexts := p.Contexts()
	handle.Enrich(contexts)
	log.WithField("count", len(contexts)).Debug("enriched surviving handle contexts")
	return p
}
