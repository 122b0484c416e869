package runtime

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/system"
)

// Program is a state transition handler the bank can dispatch instructions to
type Program interface {
	ProgramID() ed25519.PublicKey

	// Process handles a single instruction. Account references are in the
	// order the instruction lists them.
	Process(env Environment, accounts []*AccountInfo, data []byte) error
}

// Environment is the execution context handed to a program for the duration
// of one instruction
type Environment interface {
	// ProgramID is the id of the program being executed
	ProgramID() ed25519.PublicKey

	// Rent returns the current rent parameters
	Rent() system.Rent

	// Log appends a line to the invocation's program logs
	Log(format string, args ...interface{})

	// Invoke calls another program with the privileges the caller holds over
	// the provided accounts
	Invoke(ix solana.Instruction, accounts []*AccountInfo) error

	// InvokeSigned is Invoke, additionally granting signer privilege to the
	// program addresses authorized by the proofs
	InvokeSigned(ix solana.Instruction, accounts []*AccountInfo, proofs ...AuthorizationProof) error
}

type privilege struct {
	isSigner   bool
	isWritable bool
}

// frame is the environment of a single instruction at some depth of the
// invocation stack
type frame struct {
	inv     *invocation
	program ed25519.PublicKey
	depth   int

	privileges map[string]privilege
	pre        map[string]*Account
}

func newFrame(inv *invocation, program ed25519.PublicKey, depth int, accounts []*AccountInfo) *frame {
	f := &frame{
		inv:        inv,
		program:    program,
		depth:      depth,
		privileges: make(map[string]privilege),
		pre:        make(map[string]*Account),
	}

	for _, account := range accounts {
		key := solana.ToBase58(account.Key)

		p := f.privileges[key]
		p.isSigner = p.isSigner || account.IsSigner
		p.isWritable = p.isWritable || account.IsWritable
		f.privileges[key] = p
	}
	f.snapshot()

	return f
}

func (f *frame) ProgramID() ed25519.PublicKey {
	return f.program
}

func (f *frame) Rent() system.Rent {
	return f.inv.rent
}

func (f *frame) Log(format string, args ...interface{}) {
	f.inv.logf("Program log: %s", fmt.Sprintf(format, args...))
}

func (f *frame) Invoke(ix solana.Instruction, accounts []*AccountInfo) error {
	return f.InvokeSigned(ix, accounts)
}

func (f *frame) InvokeSigned(ix solana.Instruction, accounts []*AccountInfo, proofs ...AuthorizationProof) error {
	signed := make(map[string]struct{})
	for _, proof := range proofs {
		if !bytes.Equal(proof.Program, f.program) {
			return errors.Wrapf(solana.InstructionErrorInvalidSeeds, "proof for program %s used by %s", solana.ToBase58(proof.Program), solana.ToBase58(f.program))
		}

		address, err := proof.Address()
		if err != nil {
			return errors.Wrapf(solana.InstructionErrorInvalidSeeds, "invalid authorization proof: %v", err)
		}
		signed[solana.ToBase58(address)] = struct{}{}
	}

	provided := make(map[string]struct{})
	for _, account := range accounts {
		provided[solana.ToBase58(account.Key)] = struct{}{}
	}

	for _, meta := range ix.Accounts {
		key := solana.ToBase58(meta.PublicKey)

		if _, ok := provided[key]; !ok {
			return errors.Wrapf(solana.InstructionErrorMissingAccount, "account %s not provided to invoke", key)
		}

		held, ok := f.privileges[key]
		if !ok {
			return errors.Wrapf(solana.InstructionErrorMissingAccount, "account %s not available to caller", key)
		}

		if meta.IsWritable && !held.isWritable {
			return errors.Wrapf(solana.InstructionErrorPrivilegeEscalation, "%s writable privilege escalated", key)
		}

		if meta.IsSigner && !held.isSigner {
			if _, ok := signed[key]; !ok {
				return errors.Wrapf(solana.InstructionErrorPrivilegeEscalation, "%s signer privilege escalated", key)
			}
		}
	}

	// Changes made so far are checked against this program before the callee
	// observes them
	if err := f.verify(); err != nil {
		return err
	}
	f.snapshot()

	if err := f.inv.process(ix, f.depth+1); err != nil {
		return err
	}

	f.snapshot()
	return nil
}

func (f *frame) snapshot() {
	for key := range f.privileges {
		f.pre[key] = f.inv.accounts[key].Clone()
	}
}

// verify checks the changes made to the frame's accounts since the last
// snapshot
func (f *frame) verify() error {
	var preHi, preLo, postHi, postLo uint64

	for key, pre := range f.pre {
		post := f.inv.accounts[key]
		held := f.privileges[key]

		lamportsChanged := pre.Lamports != post.Lamports
		ownerChanged := !bytes.Equal(pre.Owner, post.Owner)
		dataChanged := !bytes.Equal(pre.Data, post.Data)
		ownedByProgram := bytes.Equal(pre.Owner, f.program)

		if !held.isWritable {
			switch {
			case lamportsChanged:
				return errors.Wrapf(solana.InstructionErrorReadonlyLamportChange, "account %s", key)
			case dataChanged:
				return errors.Wrapf(solana.InstructionErrorReadonlyDataModified, "account %s", key)
			case ownerChanged:
				return errors.Wrapf(solana.InstructionErrorModifiedProgramID, "account %s", key)
			}
		}

		if ownerChanged && !ownedByProgram {
			return errors.Wrapf(solana.InstructionErrorModifiedProgramID, "account %s", key)
		}

		if dataChanged && !ownedByProgram {
			return errors.Wrapf(solana.InstructionErrorExternalAccountDataModified, "account %s", key)
		}

		if pre.Executable != post.Executable {
			return errors.Wrapf(solana.InstructionErrorExecutableModified, "account %s", key)
		}

		var carry uint64
		preLo, carry = bits.Add64(preLo, pre.Lamports, 0)
		preHi += carry
		postLo, carry = bits.Add64(postLo, post.Lamports, 0)
		postHi += carry
	}

	if preHi != postHi || preLo != postLo {
		return errors.Wrapf(solana.InstructionErrorUnbalancedInstruction, "program %s", solana.ToBase58(f.program))
	}
	return nil
}
