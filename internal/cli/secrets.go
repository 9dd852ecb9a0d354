package cli

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/comitanigiacomo/onedo/internal/config"
	"github.com/comitanigiacomo/onedo/internal/core/services"
)

type HashPassphraseCmd struct {
	Passphrase string `arg:"" optional:"" help:"Passphrase to hash. Read from stdin when omitted."`
}

func (c *HashPassphraseCmd) Run(ctx *Context) error {
	passphrase := c.Passphrase
	if passphrase == "" {
		line, err := bufio.NewReader(ctx.In).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no passphrase given")
		}
		passphrase = strings.TrimRight(line, "\r\n")
	}

	hash, err := services.HashPassphrase(passphrase)
	if err != nil {
		return err
	}

	ctx.printf("PASSPHRASE_HASH=%s\n", hash)
	return nil
}

type SetSecretCmd struct {
	Value string `help:"Secret to store. A random one is generated when omitted."`
}

func (c *SetSecretCmd) Run(ctx *Context) error {
	secret := c.Value
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
		secret = base64.RawURLEncoding.EncodeToString(buf)
	}

	if err := config.SaveJWTSecret(secret); err != nil {
		return err
	}
	ctx.printf("JWT secret stored in the OS keyring.\n")
	return nil
}
