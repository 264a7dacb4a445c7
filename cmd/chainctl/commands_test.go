package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/congo-pay/congo_chain/internal/runtime"
	"github.com/congo-pay/congo_chain/internal/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func lastSnapshot(t *testing.T, out string) runtime.Snapshot {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(out))
	var last json.RawMessage
	for dec.More() {
		if err := dec.Decode(&last); err != nil {
			t.Fatalf("decode output: %v", err)
		}
	}
	var snap runtime.Snapshot
	if err := json.Unmarshal(last, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestDemo(t *testing.T) {
	out, err := execute(t, "demo")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if !strings.Contains(out, `"error_kind": "NotClaimOwner"`) {
		t.Fatalf("expected bob's revoke to fail, got %s", out)
	}

	snap := lastSnapshot(t, out)
	if snap.BlockNumber != 2 {
		t.Fatalf("expected block 2, got %d", snap.BlockNumber)
	}
	if snap.Balances["alice"] != types.NewBalance(50) || snap.Balances["charlie"] != types.NewBalance(20) {
		t.Fatalf("unexpected balances %v", snap.Balances)
	}
	if _, ok := snap.Claims[types.ContentOf("claim content")]; ok {
		t.Fatalf("alice's claim should be revoked")
	}
	if snap.Claims[types.ContentOf("charlie claim content")] != "charlie" {
		t.Fatalf("expected charlie's claim, got %v", snap.Claims)
	}
	if snap.Nonces["alice"] != 4 || snap.Nonces["bob"] != 1 {
		t.Fatalf("unexpected nonces %v", snap.Nonces)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExec(t *testing.T) {
	dir := t.TempDir()
	gen := writeFile(t, dir, "genesis.toml", "[balances]\nalice = \"100\"\n")
	b1 := writeFile(t, dir, "1.json", `{"header":{"block_number":1},"extrinsics":[{"caller":"alice","call":{"balances":{"transfer":{"to":"bob","amount":"40"}}}}]}`)
	stale := writeFile(t, dir, "stale.json", `{"header":{"block_number":1},"extrinsics":[]}`)
	b3 := writeFile(t, dir, "3.json", `{"header":{"block_number":3},"extrinsics":[{"caller":"bob","call":{"balances":{"transfer":{"to":"carol","amount":"10"}}}}]}`)

	if _, err := execute(t, "exec", "--genesis", gen, b1, stale, b3); err == nil {
		t.Fatalf("expected a stale block to stop execution")
	}

	out, err := execute(t, "exec", "--genesis", gen, "--keep-going", b1, stale, b3)
	if err == nil || !strings.Contains(err.Error(), "stale.json") {
		t.Fatalf("expected the stale block error to be reported, got %v", err)
	}

	snap := lastSnapshot(t, out)
	if snap.BlockNumber != 3 {
		t.Fatalf("expected block 3, got %d", snap.BlockNumber)
	}
	if snap.Balances["bob"] != types.NewBalance(30) || snap.Balances["carol"] != types.NewBalance(10) {
		t.Fatalf("unexpected balances %v", snap.Balances)
	}
}

func TestExecRejectsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"header":{}, "extra":true}`)
	if _, err := execute(t, "exec", bad); err == nil || !errors.Is(err, runtime.ErrMalformedBlock) {
		t.Fatalf("expected malformed block error, got %v", err)
	}
	if _, err := execute(t, "exec"); err == nil {
		t.Fatalf("expected an argument error")
	}
}
