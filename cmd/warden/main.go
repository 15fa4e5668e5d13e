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

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/enescakir/emoji"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/kradscan/warden/pkg/anticheat"
	"github.com/kradscan/warden/pkg/config"
	"github.com/kradscan/warden/pkg/logging"
	"github.com/kradscan/warden/pkg/process"
	"github.com/kradscan/warden/pkg/report"
	"github.com/kradscan/warden/pkg/version"
)

var (
	configPath string
	noDeliver  bool
	selfDelete bool
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "warden",
		Short:        "warden scans for processes holding foreign read/write handles into a target image",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to an optional YAML config file")

	scan := &cobra.Command{
		Use:   "scan <image-name>",
		Short: "scan a running process by image name for suspicious handles and overlay windows",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}
	scan.Flags().BoolVar(&noDeliver, "no-deliver", false, "skip sending the report to configured sinks")
	scan.Flags().BoolVar(&selfDelete, "self-delete", false, "delete this executable after the scan completes")
	root.AddCommand(scan)

	return root
}

func runScan(cmd *cobra.Command, args []string) error {
	imageName := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	version.CheckBuild()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" scanning %s...", imageName)
	s.Start()

	ac := anticheat.New(cfg)
	r, err := ac.Run(context.Background(), imageName)
	s.Stop()

	if err != nil {
		printFailure(imageName, err)
		return err
	}

	printSummary(r)

	if !noDeliver {
		if err := ac.Deliver(context.Background(), r); err != nil {
			log.WithError(err).Warn("report delivery failed")
		}
	}

	if selfDelete {
		if err := process.SelfDelete(); err != nil {
			log.WithError(err).Warn("self-delete failed")
		}
	}

	return nil
}

func printSummary(r *report.Report) {
	if r.Clean() {
		fmt.Printf("%v  %s: no suspicious handles or overlay windows found\n", emoji.CheckMarkButton, r.TargetName)
		return
	}
	fmt.Printf("%v  %s: %d suspicious handle(s), %d overlay window(s), %d yara match(es)\n",
		emoji.PoliceCarLight, r.TargetName, len(r.Handles), len(r.Windows), len(r.YaraMatches))
}

func printFailure(imageName string, err error) {
	fmt.Printf("%v  scan of %s failed: %v\n", emoji.CrossMark, imageName, err)
}

func init() {
	flag.CommandLine.SortFlags = false
}
