package jira

import (
	"github.com/custodia-labs/jira-export/internal/core/domain"
)

// searchResponse is the payload of GET /rest/api/2/search.
type searchResponse struct {
	StartAt    int          `json:"startAt"`
	MaxResults int          `json:"maxResults"`
	Total      int          `json:"total"`
	Issues     []issueEntry `json:"issues"`
}

// commentsResponse is the payload of GET /rest/api/2/issue/{key}/comment.
type commentsResponse struct {
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Total      int            `json:"total"`
	Comments   []commentEntry `json:"comments"`
}

// issueEntry is one issue as serialised by API v2.
type issueEntry struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Summary     string            `json:"summary"`
	Description string            `json:"description"`
	IssueType   *named            `json:"issuetype"`
	Status      *named            `json:"status"`
	Priority    *named            `json:"priority"`
	Assignee    *user             `json:"assignee"`
	Reporter    *user             `json:"reporter"`
	Created     string            `json:"created"`
	Updated     string            `json:"updated"`
	Labels      []string          `json:"labels"`
	Parent      *parentRef        `json:"parent"`
	Sprint      *named            `json:"sprint"`
	Attachment  []attachmentEntry `json:"attachment"`
}

type named struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type user struct {
	AccountID   string `json:"accountId"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type parentRef struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
	} `json:"fields"`
}

type attachmentEntry struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Content  string `json:"content"`
}

type commentEntry struct {
	ID      string `json:"id"`
	Author  *user  `json:"author"`
	Body    string `json:"body"`
	Created string `json:"created"`
}

// ServerInfo describes the Jira instance, as reported by /rest/api/2/serverInfo.
type ServerInfo struct {
	BaseURL        string `json:"baseUrl"`
	Version        string `json:"version"`
	BuildNumber    int    `json:"buildNumber"`
	ServerTitle    string `json:"serverTitle"`
	DeploymentType string `json:"deploymentType"`
}

// toDomain copies the entry into a fresh domain.Issue.
func (e *issueEntry) toDomain() *domain.Issue {
	f := e.Fields
	issue := &domain.Issue{
		ID:          e.ID,
		Key:         e.Key,
		Self:        e.Self,
		Summary:     f.Summary,
		Description: f.Description,
		Type:        f.IssueType.name(),
		Status:      f.Status.name(),
		Priority:    f.Priority.name(),
		Sprint:      f.Sprint.name(),
		Assignee:    f.Assignee.displayName(),
		Reporter:    f.Reporter.displayName(),
		Created:     parseTime(f.Created),
		Updated:     parseTime(f.Updated),
	}
	if len(f.Labels) > 0 {
		issue.Labels = append([]string(nil), f.Labels...)
	}
	if f.Parent != nil && f.Parent.Key != "" {
		issue.Parent = &domain.IssueRef{Key: f.Parent.Key, Summary: f.Parent.Fields.Summary}
	}
	for _, a := range f.Attachment {
		issue.Attachments = append(issue.Attachments, domain.Attachment{
			Filename: a.Filename,
			Size:     a.Size,
			URL:      a.Content,
		})
	}
	return issue
}

func (c *commentEntry) toDomain() domain.Comment {
	return domain.Comment{
		ID:      c.ID,
		Author:  c.Author.displayName(),
		Created: parseTime(c.Created),
		Body:    c.Body,
	}
}

func (n *named) name() string {
	if n == nil {
		return ""
	}
	return n.Name
}

// displayName falls back to the login name for Server/DC users without one.
func (u *user) displayName() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Name
}
