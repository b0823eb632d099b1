package support

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/combgrowth/internal/growth"
	"github.com/MeKo-Tech/combgrowth/internal/report"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

func (testCtx *TestContext) iRunCommand(command string) error {
	testCtx.Run(command)
	return nil
}

func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastError != nil {
		return fmt.Errorf("command %q failed: %w\nstderr: %s", testCtx.LastCommand, testCtx.LastError, testCtx.LastStderr)
	}
	return nil
}

func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastError == nil {
		return fmt.Errorf("command %q succeeded unexpectedly\noutput: %s", testCtx.LastCommand, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(testCtx.LastOutput, expected) {
		return fmt.Errorf("output does not contain %q\noutput: %s", expected, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theErrorShouldMention(expected string) error {
	if testCtx.LastError == nil {
		return errors.New("no error was returned")
	}
	if !strings.Contains(testCtx.LastError.Error(), expected) {
		return fmt.Errorf("error %q does not mention %q", testCtx.LastError, expected)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	if !json.Valid([]byte(testCtx.LastOutput)) {
		return fmt.Errorf("output is not valid JSON: %s", testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) lastReport() (*report.Report, error) {
	var r report.Report
	if err := json.Unmarshal([]byte(testCtx.LastOutput), &r); err != nil {
		return nil, fmt.Errorf("output is not a JSON report: %w", err)
	}
	return &r, nil
}

func (testCtx *TestContext) theReportShouldHaveProfiles(n int) error {
	r, err := testCtx.lastReport()
	if err != nil {
		return err
	}
	if len(r.Profiles) != n {
		return fmt.Errorf("expected %d profiles, got %d", n, len(r.Profiles))
	}
	return nil
}

func (testCtx *TestContext) theMeasurementShouldBe(change string, distance, x, y int) error {
	r, err := testCtx.lastReport()
	if err != nil {
		return err
	}
	if len(r.Profiles) != 1 || len(r.Profiles[0].Measurements) != 1 {
		return errors.New("expected exactly one measurement")
	}
	m := r.Profiles[0].Measurements[0]
	if !m.Found || m.Change != growth.Change(change) || m.Distance != distance || m.Point.X != x || m.Point.Y != y {
		return fmt.Errorf("got found=%v change=%s distance=%d point=%v", m.Found, m.Change, m.Distance, m.Point)
	}
	return nil
}

func (testCtx *TestContext) everyMeasurementShouldHaveChanged(change string) error {
	r, err := testCtx.lastReport()
	if err != nil {
		return err
	}
	for _, p := range r.Profiles {
		for _, m := range p.Measurements {
			if m.Change != growth.Change(change) {
				return fmt.Errorf("measurement %d %s, want %s", m.Index, m.Change, change)
			}
		}
	}
	return nil
}

func (testCtx *TestContext) theFileShouldExist(name string) error {
	if _, err := os.Stat(filepath.Join(testCtx.TempDir, name)); err != nil {
		return fmt.Errorf("file %s does not exist: %w", name, err)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldContain(name, expected string) error {
	data, err := os.ReadFile(filepath.Join(testCtx.TempDir, name))
	if err != nil {
		return err
	}
	if !bytes.Contains(data, []byte(expected)) {
		return fmt.Errorf("file %s does not contain %q", name, expected)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldBeCSVWithHeader(name, column string) error {
	f, err := os.Open(filepath.Join(testCtx.TempDir, name))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("file %s is not valid CSV: %w", name, err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("file %s has no data rows", name)
	}
	for _, h := range rows[0] {
		if h == column {
			return nil
		}
	}
	return fmt.Errorf("file %s has no %q column: %v", name, column, rows[0])
}

func (testCtx *TestContext) theEnvironmentVariableIsSetTo(name, value string) error {
	testCtx.SetEnv(name, value)
	return nil
}

// RegisterCommonSteps registers command execution and output assertions.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)

	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the report should have (\d+) profiles?$`, testCtx.theReportShouldHaveProfiles)
	sc.Step(`^the measurement should be "([^"]*)" by (\d+) px at (\d+),(\d+)$`, testCtx.theMeasurementShouldBe)
	sc.Step(`^every measurement should have "([^"]*)"$`, testCtx.everyMeasurementShouldHaveChanged)

	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)

	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldContain)
	sc.Step(`^the file "([^"]*)" should be CSV with a "([^"]*)" column$`, testCtx.theFileShouldBeCSVWithHeader)
	sc.Step(`^the environment variable "([^"]*)" is set to "([^"]*)"$`, testCtx.theEnvironmentVariableIsSetTo)
}
