// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package sink

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"grimm.is/haplane/internal/errors"
	"grimm.is/haplane/internal/logging"
	"grimm.is/haplane/internal/resources"
)

// Runner executes an external command with the given stdin, returning
// combined output. Split out so tests can capture submissions.
type Runner interface {
	Run(name string, args []string, stdin string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(name string, args []string, stdin string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// binding is the on-disk form of the network-binding directive consumed by
// the clustering layer's transport configuration.
type binding struct {
	Iface     string `yaml:"iface"`
	McastPort int    `yaml:"mcast_port"`
}

// CRMSink submits resource sets to pacemaker via crmsh. The binding
// directive is rendered to a YAML file the cluster transport setup reads.
type CRMSink struct {
	bindingPath string
	crmCommand  string
	runner      Runner
	logger      *logging.Logger

	bound bool
}

// NewCRMSink creates the production sink. bindingPath is where the binding
// directive is written.
func NewCRMSink(bindingPath string, logger *logging.Logger) *CRMSink {
	return &CRMSink{
		bindingPath: bindingPath,
		crmCommand:  "crm",
		runner:      execRunner{},
		logger:      logger.WithComponent("sink"),
	}
}

// SetRunner replaces the command runner.
func (s *CRMSink) SetRunner(r Runner) {
	s.runner = r
}

// Bind implements Sink.
func (s *CRMSink) Bind(iface string, mcastPort int) error {
	data, err := yaml.Marshal(binding{Iface: iface, McastPort: mcastPort})
	if err != nil {
		return errors.Wrap(err, errors.KindInternal, "encoding binding directive")
	}

	if err := os.MkdirAll(filepath.Dir(s.bindingPath), 0o755); err != nil {
		return errors.Wrap(err, errors.KindInternal, "creating binding directory")
	}
	if err := os.WriteFile(s.bindingPath, data, 0o644); err != nil {
		return errors.Wrap(err, errors.KindInternal, "writing binding directive")
	}

	s.logger.Info("cluster binding set", "iface", iface, "mcast_port", mcastPort)
	s.bound = true
	return nil
}

// Apply implements Sink. The whole set is loaded in one crmsh transaction
// so a failing descriptor never leaves a partially-applied set behind.
func (s *CRMSink) Apply(set *resources.Set) error {
	if !s.bound {
		return errors.New(errors.KindInternal, "Apply called before Bind")
	}

	text := RenderCRM(set)
	if text == "" {
		s.logger.Info("resource set is empty, nothing to apply")
		return nil
	}

	out, err := s.runner.Run(s.crmCommand, []string{"configure", "load", "update", "-"}, text)
	if err != nil {
		return errors.Wrapf(err, errors.KindInternal, "crm configure load failed: %s", strings.TrimSpace(string(out)))
	}

	s.logger.Info("resource set applied",
		"primitives", len(set.Primitives),
		"clones", len(set.Clones),
		"init_services", len(set.InitServices))
	return nil
}
