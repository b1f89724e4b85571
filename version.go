package apu

import "famicore/internal/version"

// Version identifies this build of the core, following the teacher's
// runtime/debug.ReadBuildInfo-backed version surface. Hosts that log
// their own build info (trackers, NSF players) can fold this in rather
// than hardcoding a string that drifts from what was actually compiled.
func Version() string { return version.GetVersion() }

// BuildInfo returns the detailed build metadata backing Version.
func BuildInfo() version.BuildInfo { return version.GetBuildInfo() }
