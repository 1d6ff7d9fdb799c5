package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
)

const defaultPassword = "correct-horse-battery"

// scenarioCounter keeps emails unique across scenarios sharing a database
var scenarioCounter int64

type user struct {
	email string
	id    string
	token string
}

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	scenario     int64
	users        map[string]*user
	ticketID     string
	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:       tc,
		scenario: atomic.AddInt64(&scenarioCounter, 1),
		users:    make(map[string]*user),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^the helpdesk server is running$`, s.theHelpdeskServerIsRunning)
	sc.Step(`^an? "([^"]*)" user "([^"]*)"$`, s.aUser)
	sc.Step(`^"([^"]*)" has opened a ticket "([^"]*)"$`, s.hasOpenedATicket)

	// Authentication steps
	sc.Step(`^I sign up as "([^"]*)" with password "([^"]*)" and role "([^"]*)"$`, s.iSignUpAs)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogInAs)

	// Request steps
	sc.Step(`^"([^"]*)" sends "([^"]*)" to "([^"]*)"$`, s.userSends)
	sc.Step(`^"([^"]*)" sends "([^"]*)" to "([^"]*)" with:$`, s.userSendsWith)
	sc.Step(`^an anonymous user sends "([^"]*)" to "([^"]*)"$`, s.anonymousUserSends)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain a token$`, s.theResponseShouldContainAToken)
	sc.Step(`^the response error should be "([^"]*)"$`, s.theResponseErrorShouldBe)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, s.theJSONFieldShouldBe)
	sc.Step(`^the JSON field "([^"]*)" should be the id of "([^"]*)"$`, s.theJSONFieldShouldBeTheIDOf)
	sc.Step(`^the JSON field "([^"]*)" should have (\d+) items?$`, s.theJSONFieldShouldHaveItems)
	sc.Step(`^the response should be a list of (\d+) items?$`, s.theResponseShouldBeAList)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
}

// Background steps

func (s *StepsContext) theHelpdeskServerIsRunning() error {
	// Server is already running via TestContext
	resp, err := s.tc.HTTPClient.Get(s.tc.ServerURL + "/api/health")
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (s *StepsContext) emailFor(name string) string {
	return fmt.Sprintf("%s-%d@example.com", name, s.scenario)
}

func (s *StepsContext) aUser(role, name string) error {
	if err := s.iSignUpAs(name, defaultPassword, role); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("signup of %s failed with %d: %s", name, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) hasOpenedATicket(name, title string) error {
	body := fmt.Sprintf(`{"title": %q, "description": "Opened from a feature", "category_id": 1, "priority_id": 2}`, title)
	if err := s.userSendsWith(name, http.MethodPost, "/api/tickets", &godog.DocString{Content: body}); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return fmt.Errorf("creating ticket failed with %d: %s", s.response.StatusCode, s.responseBody)
	}
	return nil
}

// Authentication steps

func (s *StepsContext) iSignUpAs(name, password, role string) error {
	body := map[string]string{"email": s.emailFor(name), "password": password, "role": role}
	if err := s.send(http.MethodPost, "/api/auth/signup", "", body); err != nil {
		return err
	}
	return s.rememberToken(name)
}

func (s *StepsContext) iLogInAs(name, password string) error {
	body := map[string]string{"email": s.emailFor(name), "password": password}
	if err := s.send(http.MethodPost, "/api/auth/login", "", body); err != nil {
		return err
	}
	return s.rememberToken(name)
}

// rememberToken stores the token of a successful signup or login
func (s *StepsContext) rememberToken(name string) error {
	if s.response.StatusCode != http.StatusOK {
		return nil
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.Token, claims); err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}
	userID, _ := claims["userId"].(string)

	s.users[name] = &user{email: s.emailFor(name), id: userID, token: resp.Token}
	return nil
}

// Request steps

func (s *StepsContext) userSends(name, method, path string) error {
	u, ok := s.users[name]
	if !ok {
		return fmt.Errorf("unknown user %q", name)
	}
	return s.send(method, s.expand(path), u.token, nil)
}

func (s *StepsContext) userSendsWith(name, method, path string, body *godog.DocString) error {
	u, ok := s.users[name]
	if !ok {
		return fmt.Errorf("unknown user %q", name)
	}
	if err := s.send(method, s.expand(path), u.token, json.RawMessage(s.expand(body.Content))); err != nil {
		return err
	}
	if method == http.MethodPost && path == "/api/tickets" && s.response.StatusCode == http.StatusCreated {
		id, err := s.jsonField("id")
		if err != nil {
			return err
		}
		s.ticketID = fmt.Sprint(id)
	}
	return nil
}

func (s *StepsContext) anonymousUserSends(method, path string) error {
	return s.send(method, s.expand(path), "", nil)
}

// expand substitutes {ticket} and {user:<name>} placeholders
func (s *StepsContext) expand(text string) string {
	text = strings.ReplaceAll(text, "{ticket}", s.ticketID)
	for name, u := range s.users {
		text = strings.ReplaceAll(text, "{user:"+name+"}", u.id)
	}
	return text
}

func (s *StepsContext) send(method, path, token string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContainAToken() error {
	token, err := s.jsonField("token")
	if err != nil {
		return err
	}
	if str, _ := token.(string); strings.Count(str, ".") != 2 {
		return fmt.Errorf("expected a JWT, got %v", token)
	}
	return nil
}

func (s *StepsContext) theResponseErrorShouldBe(expected string) error {
	return s.theJSONFieldShouldBe("error", expected)
}

func (s *StepsContext) theJSONFieldShouldBe(path, expected string) error {
	value, err := s.jsonField(path)
	if err != nil {
		return err
	}
	if actual := fmt.Sprint(value); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", path, expected, actual)
	}
	return nil
}

func (s *StepsContext) theJSONFieldShouldBeTheIDOf(path, name string) error {
	u, ok := s.users[name]
	if !ok {
		return fmt.Errorf("unknown user %q", name)
	}
	return s.theJSONFieldShouldBe(path, u.id)
}

func (s *StepsContext) theJSONFieldShouldHaveItems(path string, count int) error {
	value, err := s.jsonField(path)
	if err != nil {
		return err
	}
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("expected %s to be a list, got %T", path, value)
	}
	if len(items) != count {
		return fmt.Errorf("expected %s to have %d items, got %d", path, count, len(items))
	}
	return nil
}

func (s *StepsContext) theResponseShouldBeAList(count int) error {
	var items []any
	if err := json.Unmarshal(s.responseBody, &items); err != nil {
		return fmt.Errorf("expected a JSON list: %w", err)
	}
	if len(items) != count {
		return fmt.Errorf("expected %d items, got %d: %s", count, len(items), s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("expected body to contain %q, got %q", expected, s.responseBody)
	}
	return nil
}

// jsonField walks a dotted path (numeric segments index lists) through the
// response body
func (s *StepsContext) jsonField(path string) (any, error) {
	var value any
	if err := json.Unmarshal(s.responseBody, &value); err != nil {
		return nil, fmt.Errorf("failed to parse response %q: %w", s.responseBody, err)
	}

	for _, key := range strings.Split(path, ".") {
		switch v := value.(type) {
		case map[string]any:
			next, ok := v[key]
			if !ok {
				return nil, fmt.Errorf("field %s not found in %s", path, s.responseBody)
			}
			value = next
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(v) {
				return nil, fmt.Errorf("index %s out of range in %s", key, path)
			}
			value = v[i]
		default:
			return nil, fmt.Errorf("cannot descend into %s of %s", key, path)
		}
	}
	return value, nil
}
