package sim

import "fmt"

// AttackResult describes one resolved attack.
type AttackResult struct {
	Attacker    *Combatant
	Defender    *Combatant
	Damage      int
	RemainingHP int
	Killed      bool
}

// resolveAttack applies the attacker's power to the defender. A defender whose
// hit points reach zero leaves the living list and the occupancy index before
// this returns, so later turns in the same round no longer see it.
func (s *CombatState) resolveAttack(attacker, defender *Combatant) (AttackResult, error) {
	if !defender.Alive() {
		return AttackResult{}, &InvariantError{Round: s.Rounds, CombatantID: attacker.ID, Invariant: InvariantAttackDead,
			Detail: fmt.Sprintf("target %d is already dead", defender.ID)}
	}
	if !attacker.IsEnemy(defender) {
		return AttackResult{}, &InvariantError{Round: s.Rounds, CombatantID: attacker.ID, Invariant: InvariantAttackAlly,
			Detail: fmt.Sprintf("target %d fights for %s", defender.ID, defender.Faction)}
	}
	defender.HP -= attacker.Power
	res := AttackResult{
		Attacker:    attacker,
		Defender:    defender,
		Damage:      attacker.Power,
		RemainingHP: defender.HP,
	}
	if !defender.Alive() {
		s.remove(defender)
		res.Killed = true
	}
	return res, nil
}
