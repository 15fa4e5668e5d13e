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

package handle

import (
	"fmt"
	"strings"
)

// Image carries the identity of an owner process' binary: both path
// namespaces Windows uses to name it, plus best-effort PE and
// signature facts gathered by pkg/process. A zero value means the
// lookup was never attempted or failed - it's never treated as an
// error by the pipeline (category 2).
type Image struct {
	NTPath    string
	Win32Path string
	// Account and Domain are populated when the owner's token SID
	// could be resolved (see resolveAccount in account_windows.go).
	Account string
	Domain  string
	// Signed is nil when the signature could not be determined,
	// true/false once a PKCS#7 certificate table parse succeeded.
	Signed *bool
}

// Context pairs a raw snapshot Entry with optional enrichment. It's
// created by filter.New from Snapshot's entries, enriched at most once
// by Enrich, and consumed
// by the report renderer. Ownership is exclusive to the filter
// pipeline until rendering.
type Context struct {
	Raw    Entry
	Rights []string
	Image  Image
	// enriched is true once Enrich has run on this entry, even if the
	// enrichment itself came back empty (owner couldn't be opened).
	enriched bool
}

// Enriched reports whether Enrich has already processed this entry.
func (c *Context) Enriched() bool { return c.enriched }

// HasImage reports whether owner image paths were resolved.
func (c *Context) HasImage() bool { return c.Image.NTPath != "" || c.Image.Win32Path != "" }

func (c *Context) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "  Process ID: %d\n", c.Raw.OwnerPID)
	fmt.Fprintf(&b, "  Access Rights: %#x\n", c.Raw.GrantedAccess)
	if len(c.Rights) > 0 {
		b.WriteString("  Decoded Access Rights:\n")
		for _, r := range c.Rights {
			fmt.Fprintf(&b, "    - %s\n", r)
		}
	}
	if c.HasImage() {
		fmt.Fprintf(&b, "  NT Path: %s\n", c.Image.NTPath)
		fmt.Fprintf(&b, "  Win32 Path: %s\n", c.Image.Win32Path)
	}
	if c.Image.Account != "" {
		fmt.Fprintf(&b, "  Owner: %s\\%s\n", c.Image.Domain, c.Image.Account)
	}
	if c.Image.Signed != nil {
		if *c.Image.Signed {
			b.WriteString("  Signature: signed\n")
		} else {
			b.WriteString("  Signature: unsigned\n")
		}
	}
	return b.String()
}
