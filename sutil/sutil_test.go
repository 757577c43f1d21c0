// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sutil_test

import (
	"path/filepath"
	"testing"

	_ "code.hybscloud.com/tbserialize/basetypes"
	"code.hybscloud.com/tbserialize/ioc"
	"code.hybscloud.com/tbserialize/serialize"
	"code.hybscloud.com/tbserialize/sutil"
)

func writeBBDMTagAscii(t *testing.T, path, name string, timestep int64, instance string) {
	t.Helper()
	wc := ioc.New()
	if err := wc.Open("File://"+path, ioc.ModeWrOnly|ioc.ModeCreate|ioc.ModeTruncate, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("open write: %v", err)
	}
	ws := serialize.New()
	ws.Init(wc, serialize.ModeWrite)
	ws.SetFormat("Ascii", "")
	if err := ws.Begin(name, "BBDMTag", func() error {
		if err := ws.LL("timestep", &timestep); err != nil {
			return err
		}
		return ws.String("instanceName", &instance, 256)
	}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	wc.Close()
}

func TestUtility_DetectResolvesTypeAndFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tag.txt")
	writeBBDMTagAscii(t, path, "tag", 555, "cam1")

	u := &sutil.Utility{InputURL: "File://" + path}
	det, err := u.Detect()
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if det.TypeName != "BBDMTag" {
		t.Fatalf("TypeName = %q, want %q", det.TypeName, "BBDMTag")
	}
	if det.Format != "Ascii" {
		t.Fatalf("Format = %q, want %q", det.Format, "Ascii")
	}
	if det.Name != "tag" {
		t.Fatalf("Name = %q, want %q", det.Name, "tag")
	}
}

func TestUtility_Run_EndToEnd(t *testing.T) {
	inPath := filepath.Join(t.TempDir(), "in.txt")
	outPath := filepath.Join(t.TempDir(), "out.txt")
	writeBBDMTagAscii(t, inPath, "tag", 999, "cam2")

	var seen []string
	u := &sutil.Utility{
		InputURL:    "File://" + inPath,
		OutputURL:   "File://" + outPath,
		MaxElements: 1,
		OnElement: func(index int, typeName, name string, value interface{}) error {
			seen = append(seen, typeName)
			return nil
		},
	}
	if err := u.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if u.ElementsDone != 1 {
		t.Fatalf("ElementsDone = %d, want 1", u.ElementsDone)
	}
	if len(seen) != 1 || seen[0] != "BBDMTag" {
		t.Fatalf("OnElement callback saw %v, want [BBDMTag]", seen)
	}

	rc := ioc.New()
	rc.Init(512)
	if err := rc.Open("File://"+outPath, ioc.ModeRdOnly, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer rc.Close()
	rs := serialize.New()
	rs.Init(rc, serialize.ModeRead)
	rs.SetFormat("Ascii", "")
	var ts int64
	var name string
	if err := rs.Begin("tag", "BBDMTag", func() error {
		if err := rs.LL("timestep", &ts); err != nil {
			return err
		}
		return rs.String("instanceName", &name, 256)
	}); err != nil {
		t.Fatalf("read back output: %v", err)
	}
	if ts != 999 || name != "cam2" {
		t.Fatalf("output = timestep=%d name=%q, want timestep=999 name=%q", ts, name, "cam2")
	}
}
