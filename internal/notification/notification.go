/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package notification

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jerry-enebeli/commissions/config"
	"github.com/jerry-enebeli/commissions/internal/request"
)

const slackTimeout = 10 * time.Second

type slackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackMessage struct {
	Blocks []slackBlock `json:"blocks"`
}

func slackPayload(project string, err error, at time.Time) slackMessage {
	return slackMessage{Blocks: []slackBlock{
		{Type: "header", Text: &slackText{Type: "plain_text", Text: fmt.Sprintf("Import problem in %s 🐞", project), Emoji: true}},
		{Type: "section", Fields: []slackText{{Type: "mrkdwn", Text: fmt.Sprintf("*Error:*\n%v", err)}}},
		{Type: "section", Fields: []slackText{{Type: "mrkdwn", Text: fmt.Sprintf("*Time:*\n%v", at.Format(time.RFC822))}}},
	}}
}

// SlackNotification posts err to a Slack incoming webhook.
func SlackNotification(webhookUrl, project string, err error) error {
	payload, e := request.ToJsonReq(slackPayload(project, err, time.Now()))
	if e != nil {
		return e
	}

	req, e := http.NewRequest(http.MethodPost, webhookUrl, payload)
	if e != nil {
		return e
	}

	// Slack answers "ok" as plain text, so the body is not decoded.
	_, _, e = request.Send(req, slackTimeout)
	return e
}

// NotifyError logs systemError and, when a Slack webhook is configured,
// posts it in the background.
func NotifyError(systemError error) {
	logrus.Error(systemError)

	conf, err := config.Fetch()
	if err != nil || conf.Notification.Slack.WebhookUrl == "" {
		return
	}

	go func(webhookUrl, project string) {
		if err := SlackNotification(webhookUrl, project, systemError); err != nil {
			logrus.Warnf("slack notification failed: %v", err)
		}
	}(conf.Notification.Slack.WebhookUrl, conf.ProjectName)
}
