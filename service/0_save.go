package service

import (
	"encoding/json"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/fulldump/apitest"

	"github.com/nilsmartel/hotel/logger"
)

// ExamplesPathEnv names the directory where Save writes the API examples.
// Nothing is written if it is not set.
const ExamplesPathEnv = "HOTEL_API_EXAMPLES_PATH"

// Save renders response as a markdown API example.
func Save(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv(ExamplesPathEnv)
	if examplesPath == "" {
		return
	}

	filename := strings.ReplaceAll(strings.ToLower(title), " ", "_") + ".md"
	writeFile(path.Join(examplesPath, path.Clean(filename)), renderExample(response, title, description))
}

func renderExample(response *apitest.Response, title, description string) string {

	request := response.Request

	s := &strings.Builder{}

	s.WriteString("# " + title + "\n")
	s.WriteString(cropTabs(description) + "\n")

	method := request.Method
	if method == "GET" {
		method = ""
	} else {
		method = "-X " + method + " "
	}

	query := request.URL.RawQuery
	if query != "" {
		query = "?" + query
	}

	requestBody := formatJSON(response.BodyRequestString())

	s.WriteString("Curl example:\n\n```sh\n")
	s.WriteString("curl " + method + "\"https://example.com" + request.URL.Path + query + "\"")
	for _, k := range sortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			s.WriteString(" \\\n-H \"" + k + ": " + v + "\"")
		}
	}
	if requestBody != "" {
		s.WriteString(" \\\n-d '" + requestBody + "'")
	}
	s.WriteString("\n```\n\n\n")

	s.WriteString("HTTP request/response example:\n\n```http\n")

	// Request
	s.WriteString(request.Method + " " + request.URL.Path + query + " " + request.Proto + "\n")
	s.WriteString("Host: example.com\n")
	for _, k := range sortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			s.WriteString(k + ": " + v + "\n")
		}
	}
	s.WriteString("\n" + requestBody + "\n\n")

	// Response
	s.WriteString(response.Proto + " " + response.Status + "\n")
	for _, k := range sortedKeys(response.Header) {
		if k == "Date" {
			s.WriteString("Date: Mon, 15 Aug 2022 02:08:13 GMT\n")
			continue
		}
		for _, v := range response.Header[k] {
			s.WriteString(k + ": " + v + "\n")
		}
	}
	s.WriteString("\n" + formatJSON(response.BodyString()) + "\n```\n\n\n")

	return s.String()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatJSON indents body if it is a single JSON value.
func formatJSON(body string) string {

	var i interface{}

	err := json.Unmarshal([]byte(body), &i)
	if err != nil {
		return body
	}

	bytes, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return body
	}

	return string(bytes)
}

func writeFile(filename, text string) {
	log := logger.WithPrefix("docs").WithField("filename", filename)
	log.Debug("saving example")
	err := os.WriteFile(filename, []byte(text), 0666)
	if err != nil {
		log.WithError(err).Error("save example")
	}
}

// cropTabs removes the indentation shared by every non blank line of d.
func cropTabs(d string) string {

	lines := strings.Split(d, "\n")

	first := 0
	last := len(lines)
	if len(lines) > 2 {
		first++
		last--
	}

	minTabs := -1
	for _, line := range lines[first:last] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c := len(line) - len(strings.TrimLeft(line, "\t"))
		if minTabs < 0 || c < minTabs {
			minTabs = c
		}
	}
	if minTabs <= 0 {
		return d
	}

	prefix := strings.Repeat("\t", minTabs)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.Join(lines, "\n")
}
