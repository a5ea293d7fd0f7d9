package datastore

import (
	"sensornode-go/errcode"
	"sensornode-go/types"
)

// Typed entry points. Type safety lives at this boundary; everything below
// funnels through the single untyped (type, id) dispatch in the worker.
// Read and write reject nil/empty value slices before touching the queue.

// --- binary ---

func (s *Store) ReadBinary(id uint32, count int, resp chan Response, out []bool) error {
	if count <= 0 || resp == nil || len(out) < count {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(count)
	if err := s.read(types.Binary, id, count, resp, buf); err != nil {
		s.log.Errorf("unable to read binary datapoint %d up to datapoint %d: %v", id, id+uint32(count), err)
		return err
	}
	for i := 0; i < count; i++ {
		out[i] = buf[i].Bool()
	}
	return nil
}

func (s *Store) WriteBinary(id uint32, values []bool, resp chan Response) error {
	if len(values) == 0 {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(len(values))
	for i, v := range values {
		buf[i] = types.BoolWord(v)
	}
	if err := s.write(types.Binary, id, buf, resp); err != nil {
		s.log.Errorf("unable to write binary datapoint %d up to datapoint %d: %v", id, id+uint32(len(values)), err)
		return err
	}
	return nil
}

func (s *Store) SubscribeBinary(startID uint32, count int, cb Callback) (Token, error) {
	return s.subscribe(types.Binary, startID, count, cb)
}

func (s *Store) UnsubscribeBinary(tok Token) error { return s.unsubscribe(types.Binary, tok) }
func (s *Store) PauseSubBinary(tok Token) error    { return s.pause(types.Binary, tok) }
func (s *Store) UnpauseSubBinary(tok Token) error  { return s.unpause(types.Binary, tok) }

// --- button ---

func (s *Store) ReadButton(id uint32, count int, resp chan Response, out []types.ButtonState) error {
	if count <= 0 || resp == nil || len(out) < count {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(count)
	if err := s.read(types.Button, id, count, resp, buf); err != nil {
		s.log.Errorf("unable to read button datapoint %d up to datapoint %d: %v", id, id+uint32(count), err)
		return err
	}
	for i := 0; i < count; i++ {
		out[i] = buf[i].Button()
	}
	return nil
}

func (s *Store) WriteButton(id uint32, values []types.ButtonState, resp chan Response) error {
	if len(values) == 0 {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(len(values))
	for i, v := range values {
		buf[i] = types.ButtonWord(v)
	}
	if err := s.write(types.Button, id, buf, resp); err != nil {
		s.log.Errorf("unable to write button datapoint %d up to datapoint %d: %v", id, id+uint32(len(values)), err)
		return err
	}
	return nil
}

func (s *Store) SubscribeButton(startID uint32, count int, cb Callback) (Token, error) {
	return s.subscribe(types.Button, startID, count, cb)
}

func (s *Store) UnsubscribeButton(tok Token) error { return s.unsubscribe(types.Button, tok) }
func (s *Store) PauseSubButton(tok Token) error    { return s.pause(types.Button, tok) }
func (s *Store) UnpauseSubButton(tok Token) error  { return s.unpause(types.Button, tok) }

// --- float ---

func (s *Store) ReadFloat(id uint32, count int, resp chan Response, out []float32) error {
	if count <= 0 || resp == nil || len(out) < count {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(count)
	if err := s.read(types.Float, id, count, resp, buf); err != nil {
		s.log.Errorf("unable to read float datapoint %d up to datapoint %d: %v", id, id+uint32(count), err)
		return err
	}
	for i := 0; i < count; i++ {
		out[i] = buf[i].Float()
	}
	return nil
}

func (s *Store) WriteFloat(id uint32, values []float32, resp chan Response) error {
	if len(values) == 0 {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(len(values))
	for i, v := range values {
		buf[i] = types.FloatWord(v)
	}
	if err := s.write(types.Float, id, buf, resp); err != nil {
		s.log.Errorf("unable to write float datapoint %d up to datapoint %d: %v", id, id+uint32(len(values)), err)
		return err
	}
	return nil
}

func (s *Store) SubscribeFloat(startID uint32, count int, cb Callback) (Token, error) {
	return s.subscribe(types.Float, startID, count, cb)
}

func (s *Store) UnsubscribeFloat(tok Token) error { return s.unsubscribe(types.Float, tok) }
func (s *Store) PauseSubFloat(tok Token) error    { return s.pause(types.Float, tok) }
func (s *Store) UnpauseSubFloat(tok Token) error  { return s.unpause(types.Float, tok) }

// --- signed integer ---

func (s *Store) ReadInt(id uint32, count int, resp chan Response, out []int32) error {
	if count <= 0 || resp == nil || len(out) < count {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(count)
	if err := s.read(types.Int, id, count, resp, buf); err != nil {
		s.log.Errorf("unable to read signed integer datapoint %d up to datapoint %d: %v", id, id+uint32(count), err)
		return err
	}
	for i := 0; i < count; i++ {
		out[i] = buf[i].Int()
	}
	return nil
}

func (s *Store) WriteInt(id uint32, values []int32, resp chan Response) error {
	if len(values) == 0 {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(len(values))
	for i, v := range values {
		buf[i] = types.IntWord(v)
	}
	if err := s.write(types.Int, id, buf, resp); err != nil {
		s.log.Errorf("unable to write signed integer datapoint %d up to datapoint %d: %v", id, id+uint32(len(values)), err)
		return err
	}
	return nil
}

func (s *Store) SubscribeInt(startID uint32, count int, cb Callback) (Token, error) {
	return s.subscribe(types.Int, startID, count, cb)
}

func (s *Store) UnsubscribeInt(tok Token) error { return s.unsubscribe(types.Int, tok) }
func (s *Store) PauseSubInt(tok Token) error    { return s.pause(types.Int, tok) }
func (s *Store) UnpauseSubInt(tok Token) error  { return s.unpause(types.Int, tok) }

// --- multi-state ---

func (s *Store) ReadMultiState(id uint32, count int, resp chan Response, out []uint32) error {
	if count <= 0 || resp == nil || len(out) < count {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(count)
	if err := s.read(types.MultiState, id, count, resp, buf); err != nil {
		s.log.Errorf("unable to read multi-state datapoint %d up to datapoint %d: %v", id, id+uint32(count), err)
		return err
	}
	for i := 0; i < count; i++ {
		out[i] = buf[i].Uint()
	}
	return nil
}

func (s *Store) WriteMultiState(id uint32, values []uint32, resp chan Response) error {
	if len(values) == 0 {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(len(values))
	for i, v := range values {
		buf[i] = types.UintWord(v)
	}
	if err := s.write(types.MultiState, id, buf, resp); err != nil {
		s.log.Errorf("unable to write multi-state datapoint %d up to datapoint %d: %v", id, id+uint32(len(values)), err)
		return err
	}
	return nil
}

func (s *Store) SubscribeMultiState(startID uint32, count int, cb Callback) (Token, error) {
	return s.subscribe(types.MultiState, startID, count, cb)
}

func (s *Store) UnsubscribeMultiState(tok Token) error { return s.unsubscribe(types.MultiState, tok) }
func (s *Store) PauseSubMultiState(tok Token) error    { return s.pause(types.MultiState, tok) }
func (s *Store) UnpauseSubMultiState(tok Token) error  { return s.unpause(types.MultiState, tok) }

// --- unsigned integer ---

func (s *Store) ReadUint(id uint32, count int, resp chan Response, out []uint32) error {
	if count <= 0 || resp == nil || len(out) < count {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(count)
	if err := s.read(types.Uint, id, count, resp, buf); err != nil {
		s.log.Errorf("unable to read unsigned integer datapoint %d up to datapoint %d: %v", id, id+uint32(count), err)
		return err
	}
	for i := 0; i < count; i++ {
		out[i] = buf[i].Uint()
	}
	return nil
}

func (s *Store) WriteUint(id uint32, values []uint32, resp chan Response) error {
	if len(values) == 0 {
		s.log.Errorf("invalid operation parameters")
		return errcode.InvalidParams
	}
	buf := scratch(len(values))
	for i, v := range values {
		buf[i] = types.UintWord(v)
	}
	if err := s.write(types.Uint, id, buf, resp); err != nil {
		s.log.Errorf("unable to write unsigned integer datapoint %d up to datapoint %d: %v", id, id+uint32(len(values)), err)
		return err
	}
	return nil
}

func (s *Store) SubscribeUint(startID uint32, count int, cb Callback) (Token, error) {
	return s.subscribe(types.Uint, startID, count, cb)
}

func (s *Store) UnsubscribeUint(tok Token) error { return s.unsubscribe(types.Uint, tok) }
func (s *Store) PauseSubUint(tok Token) error    { return s.pause(types.Uint, tok) }
func (s *Store) UnpauseSubUint(tok Token) error  { return s.unpause(types.Uint, tok) }
