package util

import (
	"os"
	"testing"
)

func TestConfigConstants(t *testing.T) {
	if Name != "seadrift" {
		t.Errorf("Expected Name 'seadrift', got '%s'", Name)
	}

	if ConfigFileName != "config.yaml" {
		t.Errorf("Expected ConfigFileName 'config.yaml', got '%s'", ConfigFileName)
	}
}

func TestReadConfWithYaml(t *testing.T) {
	yamlContent := `
conf:
  host: 127.0.0.1
  sshPort: 23232
  httpPort: 9999
  sslDomain: example.com
  withAp: true
  closed: true
`
	err := os.WriteFile("config.yaml", []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}
	defer os.Remove("config.yaml")

	config, err := ReadConf()
	if err != nil {
		t.Fatalf("ReadConf failed: %v", err)
	}

	if config.Conf.Host != "127.0.0.1" {
		t.Errorf("Expected Host '127.0.0.1', got '%s'", config.Conf.Host)
	}

	if config.Conf.SshPort != 23232 {
		t.Errorf("Expected SshPort 23232, got %d", config.Conf.SshPort)
	}

	if config.Conf.HttpPort != 9999 {
		t.Errorf("Expected HttpPort 9999, got %d", config.Conf.HttpPort)
	}

	if config.Conf.SslDomain != "example.com" {
		t.Errorf("Expected SslDomain 'example.com', got '%s'", config.Conf.SslDomain)
	}

	if !config.Conf.WithAp {
		t.Error("Expected WithAp to be true")
	}

	if !config.Conf.Closed {
		t.Error("Expected Closed to be true")
	}
}

func TestReadConfWithEnvOverrides(t *testing.T) {
	yamlContent := `
conf:
  host: 127.0.0.1
  sshPort: 23232
  httpPort: 9999
  sslDomain: example.com
  withAp: false
`
	err := os.WriteFile("config.yaml", []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}
	defer os.Remove("config.yaml")

	os.Setenv("SEADRIFT_HOST", "192.168.1.1")
	os.Setenv("SEADRIFT_SSHPORT", "2222")
	os.Setenv("SEADRIFT_HTTPPORT", "8080")
	os.Setenv("SEADRIFT_SSLDOMAIN", "test.example.com")
	os.Setenv("SEADRIFT_WITH_AP", "true")

	defer func() {
		os.Unsetenv("SEADRIFT_HOST")
		os.Unsetenv("SEADRIFT_SSHPORT")
		os.Unsetenv("SEADRIFT_HTTPPORT")
		os.Unsetenv("SEADRIFT_SSLDOMAIN")
		os.Unsetenv("SEADRIFT_WITH_AP")
	}()

	config, err := ReadConf()
	if err != nil {
		t.Fatalf("ReadConf failed: %v", err)
	}

	// Environment variables should override YAML values
	if config.Conf.Host != "192.168.1.1" {
		t.Errorf("Expected Host '192.168.1.1' from env, got '%s'", config.Conf.Host)
	}

	if config.Conf.SshPort != 2222 {
		t.Errorf("Expected SshPort 2222 from env, got %d", config.Conf.SshPort)
	}

	if config.Conf.HttpPort != 8080 {
		t.Errorf("Expected HttpPort 8080 from env, got %d", config.Conf.HttpPort)
	}

	if config.Conf.SslDomain != "test.example.com" {
		t.Errorf("Expected SslDomain 'test.example.com' from env, got '%s'", config.Conf.SslDomain)
	}

	if !config.Conf.WithAp {
		t.Error("Expected WithAp to be true from env")
	}
}

func TestReadConfInvalidYaml(t *testing.T) {
	invalidYaml := `
conf:
  host: 127.0.0.1
  sshPort: not_a_number
  invalid yaml structure
`
	err := os.WriteFile("config.yaml", []byte(invalidYaml), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}
	defer os.Remove("config.yaml")

	_, err = ReadConf()
	if err == nil {
		t.Error("Expected error when parsing invalid YAML")
	}
}

func TestReadConfWithApFalseEnv(t *testing.T) {
	yamlContent := `
conf:
  host: 127.0.0.1
  sshPort: 23232
  httpPort: 9999
  sslDomain: example.com
  withAp: true
`
	err := os.WriteFile("config.yaml", []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}
	defer os.Remove("config.yaml")

	// Set env to false (anything but "true" should not enable it)
	os.Setenv("SEADRIFT_WITH_AP", "false")
	defer os.Unsetenv("SEADRIFT_WITH_AP")

	config, err := ReadConf()
	if err != nil {
		t.Fatalf("ReadConf failed: %v", err)
	}

	// Env is not "true", so it should use YAML value
	if !config.Conf.WithAp {
		t.Error("Expected WithAp to be true from YAML when env is not 'true'")
	}
}

func TestAppConfigStruct(t *testing.T) {
	config := &AppConfig{}
	config.Conf.Host = "localhost"
	config.Conf.SshPort = 22
	config.Conf.HttpPort = 80
	config.Conf.SslDomain = "test.com"
	config.Conf.WithAp = true

	if config.Conf.Host != "localhost" {
		t.Errorf("Expected Host 'localhost', got '%s'", config.Conf.Host)
	}
	if config.Conf.SshPort != 22 {
		t.Errorf("Expected SshPort 22, got %d", config.Conf.SshPort)
	}
	if config.Conf.HttpPort != 80 {
		t.Errorf("Expected HttpPort 80, got %d", config.Conf.HttpPort)
	}
	if config.Conf.SslDomain != "test.com" {
		t.Errorf("Expected SslDomain 'test.com', got '%s'", config.Conf.SslDomain)
	}
	if !config.Conf.WithAp {
		t.Error("Expected WithAp to be true")
	}
}
