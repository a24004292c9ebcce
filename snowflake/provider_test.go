package snowflake_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"github.com/xy-planning-network/snowtrail"
	"github.com/xy-planning-network/snowtrail/logger"
	"github.com/xy-planning-network/snowtrail/secrets"
	"github.com/xy-planning-network/snowtrail/snowflake"
	"github.com/xy-planning-network/snowtrail/snowflake/snowflaketest"
)

var testErr = errors.New("just testing")

type ProviderTestSuite struct {
	suite.Suite

	ctx       context.Context
	ctrl      *gomock.Controller
	connector *snowflaketest.MockConnector
	logs      *bytes.Buffer
	l         logger.Logger
	store     secrets.Map
	tokenPath string
}

func TestProviderTestSuite(t *testing.T) {
	suite.Run(t, new(ProviderTestSuite))
}

func (s *ProviderTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.connector = snowflaketest.NewMockConnector(s.ctrl)
	s.logs = new(bytes.Buffer)
	s.l = logger.New(slog.New(slog.NewTextHandler(s.logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	s.store = snowflaketest.NewSecrets()
	s.tokenPath = snowflaketest.NewTokenFile(s.T(), "oauth-token\n")
}

func (s *ProviderTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ProviderTestSuite) load() *snowflake.Provider {
	p, err := snowflake.Load(
		s.ctx,
		s.store,
		snowflake.FileTokenSource(s.tokenPath),
		snowflake.WithConnector(s.connector),
		snowflake.WithLogger(s.l),
	)
	s.Require().Nil(err)

	return p
}

func (s *ProviderTestSuite) TestAcquireSession() {
	// Arrange
	db := snowflaketest.NewDB()
	s.connector.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(db, nil).Times(1)
	p := s.load()

	// Act
	session, err := p.AcquireSession(s.ctx)

	// Assert
	s.Require().Nil(err)
	s.Require().NotNil(session)
	s.Require().Equal(db, session.DB())
	s.Require().True(session.SQLSimplifierEnabled())
	s.Require().NotEmpty(session.ID().String())
	s.Require().Nil(session.Ping(s.ctx))
	s.Require().Contains(s.logs.String(), "opened Snowflake session")
}

func (s *ProviderTestSuite) TestAcquireSessionMemoized() {
	// Arrange
	s.connector.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(snowflaketest.NewDB(), nil).Times(1)
	p := s.load()

	// Act
	first, err := p.AcquireSession(s.ctx)
	s.Require().Nil(err)
	second, err := p.AcquireSession(s.ctx)
	s.Require().Nil(err)

	// Assert
	s.Require().Same(first, second)
}

func (s *ProviderTestSuite) TestAcquireSessionConcurrent() {
	// Arrange
	s.connector.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *snowflake.CxnConfig) (*sql.DB, error) {
			time.Sleep(10 * time.Millisecond)
			return snowflaketest.NewDB(), nil
		}).
		Times(1)
	p := s.load()

	var wg sync.WaitGroup
	sessions := make([]*snowflake.Session, 16)

	// Act
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], _ = p.AcquireSession(s.ctx)
		}(i)
	}
	wg.Wait()

	// Assert
	for _, session := range sessions {
		s.Require().NotNil(session)
		s.Require().Same(sessions[0], session)
	}
}

func (s *ProviderTestSuite) TestAcquireSessionConnectorError() {
	// Arrange
	db := snowflaketest.NewDB()
	gomock.InOrder(
		s.connector.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, testErr),
		s.connector.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(db, nil),
	)
	p := s.load()

	// Act
	session, err := p.AcquireSession(s.ctx)

	// Assert
	s.Require().Nil(session)
	s.Require().Equal(testErr, err)
	s.Require().Contains(s.logs.String(), "could not open Snowflake session")

	// Act
	session, err = p.AcquireSession(s.ctx)

	// Assert
	s.Require().Nil(err)
	s.Require().NotNil(session)
	s.Require().Equal(db, session.DB())
}

func (s *ProviderTestSuite) TestConnectorReceivesConfig() {
	// Arrange
	s.connector.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cfg *snowflake.CxnConfig) (*sql.DB, error) {
			s.Require().Equal(map[string]string{
				"host":          "xy12345.snowflakecomputing.com",
				"account":       "xy12345",
				"database":      "ANALYTICS",
				"warehouse":     "COMPUTE_WH",
				"schema":        "PUBLIC",
				"role":          "ANALYST",
				"authenticator": snowflake.AuthenticatorOAuth,
				"token":         "oauth-token",
			}, cfg.Params())

			// NOTE: mutating what the Connector receives leaves the Provider untouched.
			cfg.Role = "ACCOUNTADMIN"
			return snowflaketest.NewDB(), nil
		})
	p := s.load()

	// Act
	_, err := p.AcquireSession(s.ctx)

	// Assert
	s.Require().Nil(err)
	s.Require().Equal("ANALYST", p.Config().Role)
}

func (s *ProviderTestSuite) TestDiscard() {
	// Arrange
	gomock.InOrder(
		s.connector.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(snowflaketest.NewDB(), nil),
		s.connector.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(snowflaketest.NewDB(), nil),
	)
	p := s.load()
	s.Require().Nil(p.Discard())

	first, err := p.AcquireSession(s.ctx)
	s.Require().Nil(err)

	// Act
	err = p.Discard()

	// Assert
	s.Require().Nil(err)
	s.Require().Error(first.Ping(s.ctx))

	second, err := p.AcquireSession(s.ctx)
	s.Require().Nil(err)
	s.Require().NotSame(first, second)
}

func (s *ProviderTestSuite) TestLoadMissingKey() {
	for _, key := range snowflake.RequiredKeys {
		s.Run(key, func() {
			// Arrange
			store := snowflaketest.NewSecrets()
			delete(store, key)

			// Act
			p, err := snowflake.Load(
				s.ctx,
				store,
				snowflake.FileTokenSource(s.tokenPath),
				snowflake.WithConnector(s.connector),
			)

			// Assert
			s.Require().Nil(p)
			s.Require().ErrorIs(err, snowflake.ErrKeyLookup)
			s.Require().ErrorIs(err, snowtrail.ErrNotExist)

			var nf *secrets.NotFoundError
			s.Require().ErrorAs(err, &nf)
			s.Require().Equal(key, nf.Key)
		})
	}
}

func (s *ProviderTestSuite) TestLoadTokenTrimmed() {
	// Arrange
	s.tokenPath = snowflaketest.NewTokenFile(s.T(), "  \n\toauth-token \r\n")

	// Act
	p := s.load()

	// Assert
	s.Require().Equal("oauth-token", p.Config().Params()["token"])
}

func (s *ProviderTestSuite) TestLoadTokenMissing() {
	// Arrange
	s.tokenPath = s.T().TempDir() + "/nope"

	// Act
	p, err := snowflake.Load(s.ctx, s.store, snowflake.FileTokenSource(s.tokenPath), snowflake.WithConnector(s.connector))

	// Assert
	s.Require().Nil(p)
	s.Require().ErrorIs(err, snowflake.ErrTokenIO)

	var pe *fs.PathError
	s.Require().ErrorAs(err, &pe)
}

func (s *ProviderTestSuite) TestExpiredTokenWarns() {
	// Arrange
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("secret"))
	s.Require().Nil(err)

	s.tokenPath = snowflaketest.NewTokenFile(s.T(), tok+"\n")
	s.connector.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, testErr)
	p := s.load()

	// Act
	_, err = p.AcquireSession(s.ctx)

	// Assert
	s.Require().ErrorIs(err, testErr)
	s.Require().Contains(s.logs.String(), "OAuth token has expired")
	s.Require().NotContains(s.logs.String(), tok)
}
