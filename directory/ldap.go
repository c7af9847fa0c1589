package directory

import (
	"context"
	"fmt"
	"time"

	ldap "github.com/go-ldap/ldap/v3"
	"github.com/sirupsen/logrus"

	"phishguard/config"
)

// LDAPClient talks to an LDAP directory with a short-lived connection
// per call. Bind or search failures surface to the caller untouched;
// the sync service treats them as fatal for the whole operation.
type LDAPClient struct {
	cfg config.LDAPConfig
}

func NewLDAPClient(cfg config.LDAPConfig) *LDAPClient {
	return &LDAPClient{cfg: cfg}
}

func (c *LDAPClient) connect(ctx context.Context) (*ldap.Conn, error) {
	conn, err := ldap.DialURL(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ldap dial failed: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetTimeout(time.Until(deadline))
	}
	if err := conn.Bind(c.cfg.AdminDN, c.cfg.AdminPassword); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ldap bind failed: %w", err)
	}
	return conn, nil
}

func (c *LDAPClient) TestConnection(ctx context.Context) error {
	conn, err := c.connect(ctx)
	if err != nil {
		logrus.WithError(err).Warn("ldap connection test failed")
		return err
	}
	conn.Close()
	return nil
}

func (c *LDAPClient) ListUsers(ctx context.Context) ([]User, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	searchBase := c.cfg.BaseDN
	if c.cfg.UsersOU != "" {
		searchBase = c.cfg.UsersOU + "," + c.cfg.BaseDN
	}

	req := ldap.NewSearchRequest(
		searchBase,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		c.cfg.UserFilter,
		[]string{"cn", "sn", "mail", "uid", "givenName"},
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("ldap search failed: %w", err)
	}

	var users []User
	for _, entry := range res.Entries {
		mail := entry.GetAttributeValue("mail")
		if mail == "" {
			continue
		}
		users = append(users, User{
			DN:        entry.DN,
			CN:        attrOr(entry, "cn", "Unknown"),
			SN:        attrOr(entry, "sn", "Unknown"),
			Mail:      mail,
			UID:       entry.GetAttributeValue("uid"),
			GivenName: entry.GetAttributeValue("givenName"),
		})
	}

	logrus.WithField("count", len(users)).Info("ldap search completed")
	return users, nil
}

func attrOr(entry *ldap.Entry, name, fallback string) string {
	if v := entry.GetAttributeValue(name); v != "" {
		return v
	}
	return fallback
}

var _ Client = (*LDAPClient)(nil)
