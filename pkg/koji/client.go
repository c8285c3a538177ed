package koji

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kolo/xmlrpc"
)

// Client talks XML-RPC to a Koji hub. It satisfies the Hub interface.
type Client struct {
	hub    *xmlrpc.Client
	webURL string
}

// NewClient creates a hub client for the given XML-RPC endpoint. webURL is
// the root of the hub's web frontend, used for URL construction only.
func NewClient(hubURL, webURL string) (*Client, error) {
	rpc, err := xmlrpc.NewClient(hubURL, &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create hub client for %s: %w", hubURL, err)
	}

	return &Client{
		hub:    rpc,
		webURL: strings.TrimRight(webURL, "/"),
	}, nil
}

// WebURL returns the hub's web frontend root.
func (c *Client) WebURL() string {
	return c.webURL
}

type userInfo struct {
	ID   int    `xmlrpc:"id"`
	Name string `xmlrpc:"name"`
}

// GetUser looks up a hub account by name. Unknown accounts return
// (nil, nil), not an error.
func (c *Client) GetUser(ctx context.Context, name string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug("Looking up koji user", "name", name)

	var info userInfo
	if err := c.hub.Call("getUser", name, &info); err != nil {
		return nil, fmt.Errorf("getUser %s: %w", name, err)
	}
	if info.ID == 0 {
		return nil, nil
	}

	return &User{ID: info.ID, Name: info.Name}, nil
}

type taskInfo struct {
	ID         int    `xmlrpc:"id"`
	Method     string `xmlrpc:"method"`
	State      int    `xmlrpc:"state"`
	Arch       string `xmlrpc:"arch"`
	Priority   int    `xmlrpc:"priority"`
	CreateTime string `xmlrpc:"create_time"`
	StartTime  string `xmlrpc:"start_time"`
	EndTime    string `xmlrpc:"completion_time"`
	Request    []any  `xmlrpc:"request"`
}

// ListTasks lists tasks matching the filter, ordered by priority then
// creation time ascending. The hub does the ordering.
func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := map[string]any{
		"state":  []int{int(filter.State)},
		"owner":  filter.Owner,
		"decode": true,
	}
	qopts := map[string]any{"order": "priority,create_time"}

	log.Debug("Listing tasks", "owner", filter.Owner, "state", filter.State.String())

	var infos []taskInfo
	if err := c.hub.Call("listTasks", []any{opts, qopts}, &infos); err != nil {
		return nil, fmt.Errorf("listTasks owner=%d: %w", filter.Owner, err)
	}

	tasks := make([]Task, 0, len(infos))
	for _, info := range infos {
		tasks = append(tasks, c.taskFromInfo(info))
	}
	return tasks, nil
}

func (c *Client) taskFromInfo(info taskInfo) Task {
	task := Task{
		ID:        info.ID,
		Method:    info.Method,
		State:     TaskState(info.State),
		Arch:      info.Arch,
		Priority:  info.Priority,
		Created:   parseHubTime(info.CreateTime),
		Started:   parseHubTime(info.StartTime),
		Completed: parseHubTime(info.EndTime),
		WebURL:    c.webURL,
	}
	task.Package, task.Target, task.Scratch = parseRequest(info.Request)
	return task
}

// parseRequest pulls the package, target and scratch flag out of a decoded
// task request: [source, target, opts].
func parseRequest(request []any) (pkg, target string, scratch bool) {
	if len(request) > 0 {
		if source, ok := request[0].(string); ok {
			pkg = packageFromSource(source)
		}
	}
	if len(request) > 1 {
		target, _ = request[1].(string)
	}
	if len(request) > 2 {
		if opts, ok := request[2].(map[string]any); ok {
			scratch, _ = opts["scratch"].(bool)
		}
	}
	return pkg, target, scratch
}

// packageFromSource derives a package name from a build source: a
// dist-git URL ("git://.../rpms/ceph#abc123") or an uploaded srpm path.
func packageFromSource(source string) string {
	source, _, _ = strings.Cut(source, "#")
	name := path.Base(source)
	name = strings.TrimSuffix(name, ".git")
	name = strings.TrimSuffix(name, ".src.rpm")
	return name
}

// EstimateCompletion predicts when an in-progress build task will finish,
// anchored on its earliest-started buildArch child plus the package's
// average build duration. Returns ErrNoDescendants until a child starts.
func (c *Client) EstimateCompletion(ctx context.Context, task *Task) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	var descendants map[string][]taskInfo
	if err := c.hub.Call("getTaskDescendents", []any{task.ID, false}, &descendants); err != nil {
		return time.Time{}, fmt.Errorf("getTaskDescendents %d: %w", task.ID, err)
	}

	var earliest time.Time
	for _, child := range descendants[strconv.Itoa(task.ID)] {
		if child.Method != "buildArch" {
			continue
		}
		started := parseHubTime(child.StartTime)
		if started.IsZero() {
			continue
		}
		if earliest.IsZero() || started.Before(earliest) {
			earliest = started
		}
	}
	if earliest.IsZero() {
		return time.Time{}, ErrNoDescendants
	}

	var avgSeconds float64
	if err := c.hub.Call("getAverageBuildDuration", task.Package, &avgSeconds); err != nil {
		return time.Time{}, fmt.Errorf("getAverageBuildDuration %s: %w", task.Package, err)
	}

	return earliest.Add(time.Duration(avgSeconds * float64(time.Second))), nil
}

// Target resolves the target name a build was built against, from the
// build task's request. Builds without a task have no target.
func (c *Client) Target(ctx context.Context, build *Build) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if build.TaskID == 0 {
		return "", nil
	}

	var request []any
	if err := c.hub.Call("getTaskRequest", build.TaskID, &request); err != nil {
		return "", fmt.Errorf("getTaskRequest %d: %w", build.TaskID, err)
	}
	if len(request) > 1 {
		if target, ok := request[1].(string); ok {
			return target, nil
		}
	}
	return "", nil
}

type tagInfo struct {
	ID   int    `xmlrpc:"id"`
	Name string `xmlrpc:"name"`
}

// Tags lists the tags this build currently sits in, in hub order.
func (c *Client) Tags(ctx context.Context, build *Build) ([]Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var infos []tagInfo
	if err := c.hub.Call("listTags", build.ID, &infos); err != nil {
		return nil, fmt.Errorf("listTags build=%d: %w", build.ID, err)
	}

	tags := make([]Tag, 0, len(infos))
	for _, info := range infos {
		tags = append(tags, Tag{ID: info.ID, Name: info.Name})
	}
	return tags, nil
}

var hubTimeLayouts = []string{
	"2006-01-02 15:04:05.000000",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseHubTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range hubTimeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
