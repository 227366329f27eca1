package router

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"xchaindata.backend/internal/evmutil"
)

// messageHashArgs matches router_hash.py's compute_message_hash ABI tuple:
// abi.encode(uint256 amount, bytes32 srcChainIdBytes32, uint256 depositId,
// address destToken, address recipient, address destinationContract).
var messageHashArgs = abi.Arguments{
	{Type: mustType("uint256")},
	{Type: mustType("bytes32")},
	{Type: mustType("uint256")},
	{Type: mustType("address")},
	{Type: mustType("address")},
	{Type: mustType("address")},
}

func mustType(kind string) abi.Type {
	t, err := abi.NewType(kind, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// computeMessageHash reproduces compute_message_hash: the source chain id is
// encoded as ASCII decimal (not big-endian binary), matching
// to_ascii_bytes32_chain_id and this package's destChainIdBytes decoding.
func computeMessageHash(amount *big.Int, srcChainID uint64, depositID *big.Int, destToken, recipient, destinationContract string) (string, error) {
	srcChainIDBytes32 := evmutil.AsciiBytes32(srcChainID)

	encoded, err := messageHashArgs.Pack(
		amount,
		srcChainIDBytes32,
		depositID,
		common.HexToAddress(destToken),
		common.HexToAddress(recipient),
		common.HexToAddress(destinationContract),
	)
	if err != nil {
		return "", err
	}
	return crypto.Keccak256Hash(encoded).Hex(), nil
}

// scaleToEighteenDecimals scales a raw amount up to 18 decimals when the
// destination token uses fewer, mirroring handler.py's
// "Scale to 18 decimals only when token has fewer than 18 decimals."
func scaleToEighteenDecimals(amount *big.Int, decimals int) *big.Int {
	if decimals >= 18 {
		return amount
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(18-decimals)), nil)
	return new(big.Int).Mul(amount, factor)
}
