// Smoke-tests the running server end to end: open a session, upload a
// file, poll status until processing finishes, ask a question, print
// the transcript. Usage:
//
//	go run ./scripts/smoke <file.pdf|file.mp4> ["question"]
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000"

var (
	ok   = color.New(color.FgGreen).PrintfFunc()
	bad  = color.New(color.FgRed).PrintfFunc()
	info = color.New(color.FgCyan).PrintfFunc()
)

func main() {
	if len(os.Args) < 2 {
		bad("usage: smoke <file> [question]\n")
		os.Exit(1)
	}
	filePath := os.Args[1]
	question := "What is this document about?"
	if len(os.Args) > 2 {
		question = os.Args[2]
	}

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	// 1. Open session (sets the cookie)
	resp, err := client.Get(baseURL + "/")
	if err != nil {
		bad("GET /: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()
	ok("session established\n")

	// 2. Upload
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, _ := w.CreateFormFile("file", filepath.Base(filePath))
	f, err := os.Open(filePath)
	if err != nil {
		bad("open %s: %v\n", filePath, err)
		os.Exit(1)
	}
	io.Copy(part, f)
	f.Close()
	w.Close()

	req, _ := http.NewRequest("POST", baseURL+"/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err = client.Do(req)
	if err != nil {
		bad("POST /upload: %v\n", err)
		os.Exit(1)
	}
	printJSON(resp)

	// 3. Poll until processing finishes
	waitIdle(client)

	// 4. Ask
	payload, _ := json.Marshal(map[string]string{"question": question})
	resp, err = client.Post(baseURL+"/ask", "application/json", bytes.NewReader(payload))
	if err != nil {
		bad("POST /ask: %v\n", err)
		os.Exit(1)
	}
	printJSON(resp)

	waitIdle(client)

	// 5. Transcript
	resp, err = client.Get(baseURL + "/messages")
	if err != nil {
		bad("GET /messages: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	var messages struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	json.NewDecoder(resp.Body).Decode(&messages)
	for _, m := range messages.Messages {
		info("[%s] ", m.Role)
		fmt.Println(m.Content)
	}
	ok("done\n")
}

func waitIdle(client *http.Client) {
	for {
		resp, err := client.Get(baseURL + "/status")
		if err != nil {
			bad("GET /status: %v\n", err)
			os.Exit(1)
		}
		var status struct {
			Status       string `json:"status"`
			IsProcessing bool   `json:"is_processing"`
		}
		json.NewDecoder(resp.Body).Decode(&status)
		resp.Body.Close()
		info("status: %s\n", status.Status)
		if !status.IsProcessing {
			return
		}
		time.Sleep(1 * time.Second)
	}
}

func printJSON(resp *http.Response) {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusOK {
		ok("%d %s\n", resp.StatusCode, bytes.TrimSpace(b))
	} else {
		bad("%d %s\n", resp.StatusCode, bytes.TrimSpace(b))
	}
}
