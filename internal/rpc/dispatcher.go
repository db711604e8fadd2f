package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"pos-service/internal/middleware"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const codeOK = "OK"

// Response сериализуется либо как {"data": ...}, либо как {"error": {...}}.
type Response struct {
	Data  any
	Error *Error
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(struct {
			Error *Error `json:"error"`
		}{r.Error})
	}
	return json.Marshal(struct {
		Data any `json:"data"`
	}{r.Data})
}

type Dispatcher struct {
	reg      *Registry
	authz    *middleware.Authorizer
	validate *validator.Validate
	metrics  *Metrics
	now      func() time.Time
	log      *zap.Logger
}

func NewDispatcher(reg *Registry, authz *middleware.Authorizer, metrics *Metrics, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		reg:      reg,
		authz:    authz,
		validate: newValidator(),
		metrics:  metrics,
		now:      time.Now,
		log:      log,
	}
}

// Dispatch: поиск процедуры, правило доступа, разбор и валидация входа, вызов.
// Доступ проверяется до разбора входа.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw []byte, md middleware.Metadata) Response {
	start := d.now()

	p, ok := d.reg.Lookup(name)
	if !ok {
		d.metrics.observe("unknown", string(CodeNotFound), d.now().Sub(start))
		return Response{Error: NewError(CodeNotFound, "procedure "+name+" not found")}
	}

	data, err := d.run(ctx, p, raw, md)
	elapsed := d.now().Sub(start)
	if err == nil {
		d.metrics.observe(p.Name, codeOK, elapsed)
		d.log.Debug("rpc", zap.String("procedure", p.Name), zap.Duration("took", elapsed))
		return Response{Data: data}
	}

	rpcErr, internal := toRPCError(err)
	d.metrics.observe(p.Name, string(rpcErr.Code), elapsed)
	if internal {
		d.log.Error("failed", zap.String("procedure", p.Name), zap.String("client_id", md.ClientID), zap.Error(err))
	} else {
		d.log.Warn("failed", zap.String("procedure", p.Name), zap.String("code", string(rpcErr.Code)), zap.Error(err))
	}
	return Response{Error: rpcErr}
}

func (d *Dispatcher) run(ctx context.Context, p Procedure, raw []byte, md middleware.Metadata) (any, error) {
	ctx, err := d.authz.Enforce(ctx, md, p.Rule)
	if err != nil {
		return nil, err
	}

	in := p.newInput()
	if body := bytes.TrimSpace(raw); len(body) > 0 && !bytes.Equal(body, []byte("null")) {
		if err := json.Unmarshal(body, in); err != nil {
			return nil, NewError(CodeBadRequest, "invalid input: "+err.Error())
		}
	}
	if err := d.validate.Struct(in); err != nil {
		return nil, NewError(CodeBadRequest, validationMessage(err))
	}

	return p.call(ctx, in)
}
