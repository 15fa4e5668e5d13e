//go:build windows
// +build windows

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

package process

import (
	"unsafe"

	"go.mozilla.org/pkcs7"

	"github.com/saferwall/pe"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// imagePath resolves the on-disk path backing this process' module by
// re-walking a module snapshot - the same primitive moduleBase uses -
// rather than caching the path from resolution time, since the
// Process struct only keeps the base address.
func (p *Process) imagePath() (string, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, p.PID)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(snap)

	var entry windows.ModuleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Module32First(snap, &entry); err != nil {
		return "", err
	}
	for {
		if sameImageName(unicodeToString(entry.Module[:]), p.Name) {
			return unicodeToString(entry.ExePath[:]), nil
		}
		if err := windows.Module32Next(snap, &entry); err != nil {
			return "", err
		}
	}
}

// Module lazily parses the PE headers of the resolved image and
// caches the result for the Process' lifetime. A parse failure is
// logged and returns (nil, err); callers treat this as informational
// only, never as grounds to drop a scan result.
func (p *Process) Module() (*pe.File, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.peLoaded {
		return p.module, nil
	}
	p.peLoaded = true

	path, err := p.imagePath()
	if err != nil || path == "" {
		log.WithError(err).WithField("pid", p.PID).Debug("could not resolve image path for PE parse")
		return nil, err
	}

	f, err := pe.New(path, &pe.Options{})
	if err != nil {
		log.WithError(err).WithField("path", path).Debug("pe.New failed")
		return nil, err
	}
	if err := f.Parse(); err != nil {
		log.WithError(err).WithField("path", path).Debug("PE parse failed")
		return nil, err
	}
	p.module = f
	return p.module, nil
}

// Signed reports whether the resolved image's certificate table
// parses as a valid PKCS#7 SignedData blob. A missing or too-short
// certificate table returns (false, nil), which callers record as
// unsigned. A PE load or PKCS#7 parse failure returns (false, err),
// which callers leave as "could not determine" (a nil *bool).
func (p *Process) Signed() (bool, error) {
	p.mu.Lock()
	if p.signed != nil {
		defer p.mu.Unlock()
		return *p.signed, nil
	}
	p.mu.Unlock()

	f, err := p.Module()
	if err != nil || f == nil {
		return false, err
	}

	cert := securityDirectoryBytes(f)
	if len(cert) == 0 {
		return false, nil
	}

	// WIN_CERTIFICATE carries an 8-byte header (dwLength, wRevision,
	// wCertificateType) before the raw PKCS#7 blob.
	const winCertificateHeaderSize = 8
	if len(cert) <= winCertificateHeaderSize {
		return false, nil
	}

	_, err = pkcs7.Parse(cert[winCertificateHeaderSize:])
	signed := err == nil
	p.mu.Lock()
	p.signed = &signed
	p.mu.Unlock()
	return signed, err
}

// securityDirectoryBytes extracts the raw WIN_CERTIFICATE bytes from
// the PE's security data directory (IMAGE_DIRECTORY_ENTRY_SECURITY,
// index 4). Unlike every other data directory, its RVA is a raw file
// offset, not relocated against the image base.
func securityDirectoryBytes(f *pe.File) []byte {
	const imageDirectoryEntrySecurity = 4

	var dir pe.DataDirectory
	switch oh := f.NtHeader.OptionalHeader.(type) {
	case pe.ImageOptionalHeader32:
		dir = oh.DataDirectory[imageDirectoryEntrySecurity]
	case pe.ImageOptionalHeader64:
		dir = oh.DataDirectory[imageDirectoryEntrySecurity]
	default:
		return nil
	}
	if dir.Size == 0 {
		return nil
	}
	data := f.Data()
	offset := int(dir.VirtualAddress)
	end := offset + int(dir.Size)
	if offset < 0 || end > len(data) || offset >= end {
		return nil
	}
	return data[offset:end]
}
