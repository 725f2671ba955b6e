package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeBoardServer 模拟共享板 API：记录标记请求，ABC123 槽位 1 已被使用
func fakeBoardServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var marks []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/invite":
			io.WriteString(w, `{"success":true,"data":{"invites":[
				{"invite_code":"ABC123","used_once":true,"remaining_uses":3,"updated_at":"2025-01-01T00:00:00Z"},
				{"invite_code":"XYZ789","remaining_uses":4,"updated_at":"2025-01-01T00:00:00Z"}
			],"stats":{"total_codes":2,"used_slots":1,"available_uses":7}}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/invite/mark":
			var body struct {
				InviteCode string      `json:"inviteCode"`
				Slot       json.Number `json:"slot"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			marks = append(marks, body.InviteCode+":"+body.Slot.String())
			mu.Unlock()
			if body.InviteCode == "ABC123" && body.Slot.String() == "1" {
				w.WriteHeader(http.StatusConflict)
				io.WriteString(w, `{"success":false,"reason":"already used","error":"ALREADY_USED"}`)
				return
			}
			io.WriteString(w, `{"success":true}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/invite":
			io.WriteString(w, `{"success":true,"data":{"invite_code":"NEW001","remaining_uses":4}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &marks
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListCommand(t *testing.T) {
	srv, _ := fakeBoardServer(t)

	out, _, err := run(t, "list", "--server", srv.URL)
	if err != nil {
		t.Fatalf("list 失败: %v", err)
	}
	if !strings.Contains(out, "ABC123") || !strings.Contains(out, "7 uses available") {
		t.Errorf("输出缺少共享板内容:\n%s", out)
	}
}

func TestSubmitCommand(t *testing.T) {
	srv, _ := fakeBoardServer(t)

	out, _, err := run(t, "submit", "new001", "--server", srv.URL)
	if err != nil {
		t.Fatalf("submit 失败: %v", err)
	}
	if !strings.Contains(out, "Submitted NEW001") {
		t.Errorf("输出错误: %s", out)
	}
}

func TestMarkCommand_PartialFailure(t *testing.T) {
	srv, marks := fakeBoardServer(t)

	out, errOut, err := run(t, "mark", "xyz789", "2", "ABC123", "1", "--server", srv.URL)
	if err == nil {
		t.Fatal("存在失败的标记时应返回错误")
	}
	if len(*marks) != 2 || (*marks)[0] != "XYZ789:2" {
		t.Errorf("标记请求错误: %v", *marks)
	}
	if !strings.Contains(out, "XYZ789 slot 2 marked") || !strings.Contains(errOut, "already used") {
		t.Errorf("输出错误:\nstdout=%s\nstderr=%s", out, errOut)
	}
}

func TestParseMarkArgs(t *testing.T) {
	if _, err := parseMarkArgs([]string{"ABC123"}); err == nil {
		t.Error("奇数个参数应报错")
	}
	if _, err := parseMarkArgs([]string{"ABC123", "5"}); err == nil {
		t.Error("槽位超出范围应报错")
	}
	targets, err := parseMarkArgs([]string{" abc123 ", "4"})
	if err != nil || targets[0].code != "ABC123" || targets[0].slot != 4 {
		t.Errorf("解析错误: %+v %v", targets, err)
	}
}
