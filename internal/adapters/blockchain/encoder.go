package blockchain

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// Encoder converts plan values (strings, yaml numbers, bools, lists) into the
// Go types abi.Arguments.Pack expects
type Encoder struct{}

// NewEncoder creates an argument encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Coerce converts values one by one against the constructor inputs
func (e *Encoder) Coerce(inputs abi.Arguments, values []any) ([]any, error) {
	if len(inputs) != len(values) {
		return nil, fmt.Errorf("constructor takes %d arguments, got %d", len(inputs), len(values))
	}
	out := make([]any, len(values))
	for i, input := range inputs {
		v, err := coerce(input.Type, values[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		out[i] = v
	}
	return out, nil
}

func coerce(t abi.Type, value any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		s, ok := value.(string)
		if !ok {
			if addr, ok := value.(common.Address); ok {
				return addr, nil
			}
			return nil, fmt.Errorf("expected an address string, got %T", value)
		}
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, s)
		}
		return common.HexToAddress(s), nil

	case abi.BoolTy:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			return strconv.ParseBool(v)
		}
		return nil, fmt.Errorf("expected a bool, got %T", value)

	case abi.IntTy, abi.UintTy:
		n, err := toBigInt(value)
		if err != nil {
			return nil, err
		}
		return fitInteger(t, n)

	case abi.StringTy:
		switch v := value.(type) {
		case string:
			return v, nil
		case int, int64, uint64, float64, bool:
			return fmt.Sprint(v), nil
		}
		return nil, fmt.Errorf("expected a string, got %T", value)

	case abi.BytesTy:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected hex bytes, got %T", value)
		}
		return hexutil.Decode(s)

	case abi.FixedBytesTy:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected hex bytes, got %T", value)
		}
		raw, err := hexutil.Decode(s)
		if err != nil {
			return nil, err
		}
		if len(raw) > t.Size {
			return nil, fmt.Errorf("%d bytes do not fit in bytes%d", len(raw), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(raw))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		items, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a list, got %T", value)
		}
		if t.T == abi.ArrayTy && len(items) != t.Size {
			return nil, fmt.Errorf("expected %d items, got %d", t.Size, len(items))
		}
		var out reflect.Value
		if t.T == abi.ArrayTy {
			out = reflect.New(t.GetType()).Elem()
		} else {
			out = reflect.MakeSlice(t.GetType(), len(items), len(items))
		}
		for i, item := range items {
			v, err := coerce(*t.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(v))
		}
		return out.Interface(), nil
	}

	return nil, fmt.Errorf("unsupported type %s", t.String())
}

func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return v, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("%v is not an integer", v)
		}
		return big.NewInt(int64(v)), nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), "_", "")
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	}
	return nil, fmt.Errorf("expected an integer, got %T", value)
}

func fitInteger(t abi.Type, n *big.Int) (any, error) {
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return nil, fmt.Errorf("%s is negative", n)
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("%s overflows uint%d", n, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s overflows int%d", n, t.Size)
		}
	}

	// only 8, 16, 32 and 64 bit integers map to native Go types
	switch t.Size {
	case 8, 16, 32, 64:
	default:
		return n, nil
	}
	target := t.GetType()
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(target).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(target).Interface(), nil
}

var _ usecase.ArgumentEncoder = (*Encoder)(nil)
