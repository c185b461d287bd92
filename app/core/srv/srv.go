package srv

import (
	"github.com/leli-rentals/leli-assist/pkg/mailer"
	"github.com/leli-rentals/leli-assist/pkg/types"
)

type Srv struct {
	cache  types.Cache
	mailer mailer.Sender
}

type ApplyFunc func(*Srv)

func SetupSrvs(opts ...ApplyFunc) *Srv {
	a := &Srv{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func ApplyCache(cache types.Cache) ApplyFunc {
	return func(s *Srv) {
		s.cache = cache
	}
}

func ApplyMailer(sender mailer.Sender) ApplyFunc {
	return func(s *Srv) {
		s.mailer = sender
	}
}

func (s *Srv) Cache() types.Cache {
	return s.cache
}

func (s *Srv) Mailer() mailer.Sender {
	return s.mailer
}
