package invoke

import (
	"testing"
	"time"

	"github.com/kbukum/invokit/util"
)

func TestOptionDefaults(t *testing.T) {
	o := &Options{}
	if o.shell() {
		t.Error("shell should default off")
	}
	if o.json() {
		t.Error("json should default off")
	}
	if !o.reject() {
		t.Error("reject should default on")
	}
	if !o.exit() {
		t.Error("exit should default on")
	}
	if !o.trimEnd() {
		t.Error("trimEnd should default on")
	}
	if o.encoding() != EncodingText {
		t.Errorf("encoding = %q, want %q", o.encoding(), EncodingText)
	}
	if o.waitDelay() != defaultWaitDelay {
		t.Errorf("waitDelay = %v, want %v", o.waitDelay(), defaultWaitDelay)
	}

	o = &Options{
		Shell:     util.Ptr(true),
		JSON:      util.Ptr(true),
		Reject:    util.Ptr(false),
		Exit:      util.Ptr(false),
		TrimEnd:   util.Ptr(false),
		Encoding:  EncodingBytes,
		WaitDelay: 50 * time.Millisecond,
	}
	if !o.shell() || !o.json() {
		t.Error("explicit true flags were not honored")
	}
	if o.reject() || o.exit() || o.trimEnd() {
		t.Error("explicit false flags were not honored")
	}
	if o.encoding() != EncodingBytes {
		t.Errorf("encoding = %q, want %q", o.encoding(), EncodingBytes)
	}
	if o.waitDelay() != 50*time.Millisecond {
		t.Errorf("waitDelay = %v", o.waitDelay())
	}
}

func TestMergeCallSiteWins(t *testing.T) {
	defaults := &Options{
		Cwd:   "/base",
		Env:   map[string]string{"A": "1", "B": "1"},
		Shell: util.Ptr(true),
		JSON:  util.Ptr(true),
		Exit:  util.Ptr(false),
	}
	call := &Options{
		Cwd:   "/override",
		Env:   map[string]string{"B": "2", "C": "3"},
		Shell: util.Ptr(false),
		JSON:  util.Ptr(false),
	}
	out := Merge(defaults, call)

	if out.Cwd != "/override" {
		t.Errorf("Cwd = %q", out.Cwd)
	}
	if out.Env["A"] != "1" || out.Env["B"] != "2" || out.Env["C"] != "3" {
		t.Errorf("Env merge wrong: %v", out.Env)
	}
	// Explicit false at the call site must override a true bound default.
	if out.shell() {
		t.Error("call-site Shell=false did not override the bound default")
	}
	if out.json() {
		t.Error("call-site JSON=false did not override the bound default")
	}
	if out.exit() {
		t.Error("default Exit=false should survive a merge that does not set it")
	}
	// Inputs must not be mutated.
	if defaults.Env["B"] != "1" {
		t.Error("Merge mutated the defaults env")
	}
}

func TestMergeNilSides(t *testing.T) {
	if out := Merge(nil, nil); out == nil || !out.reject() {
		t.Error("Merge(nil, nil) should yield usable zero options")
	}
	out := Merge(nil, &Options{Shell: util.Ptr(true)})
	if !out.shell() {
		t.Error("call options ignored with nil defaults")
	}
	out = Merge(&Options{Cwd: "/d"}, nil)
	if out.Cwd != "/d" {
		t.Error("defaults ignored with nil call options")
	}
}

func TestMergeTriStateFlags(t *testing.T) {
	defaults := &Options{Reject: util.Ptr(false), Shell: util.Ptr(true)}

	// Unset at the call site keeps the default.
	merged := Merge(defaults, &Options{})
	if merged.reject() {
		t.Error("unset Reject should keep the default false")
	}
	if !merged.shell() {
		t.Error("unset Shell should keep the default true")
	}
	// Explicit values at the call site override in both directions.
	if !Merge(defaults, &Options{Reject: util.Ptr(true)}).reject() {
		t.Error("explicit Reject=true should override the default")
	}
	if Merge(defaults, &Options{Shell: util.Ptr(false)}).shell() {
		t.Error("explicit Shell=false should override the default")
	}
}
