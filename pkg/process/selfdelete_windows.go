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
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// SelfDelete removes the running executable after it exits. Windows
// keeps a lock on a running exe's file, so direct deletion fails; the
// standard workaround is to spawn a detached batch script that waits
// a moment, deletes the exe, then deletes itself.
func SelfDelete() error {
	exePath, err := os.Executable()
	if err != nil {
		return err
	}

	batPath := strings.TrimSuffix(exePath, ".exe") + ".bat"
	script := fmt.Sprintf(
		"@echo off\r\ntimeout /t 1 /nobreak > NUL\r\ndel /F \"%s\"\r\ndel /F \"%%~f0\"\r\n",
		exePath,
	)
	if err := os.WriteFile(batPath, []byte(script), 0o600); err != nil {
		return err
	}

	cmd := exec.Command("cmd", "/C", batPath)
	return cmd.Start()
}
