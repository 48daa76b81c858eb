package commerce

// Order fields shared by the active-order query and the coupon mutations.
const orderFields = `
id
code
state
currencyCode
couponCodes
totalWithTax
shippingWithTax
lines {
  id
  linePriceWithTax
}
surcharges {
  description
  price
}
promotions {
  couponCode
  actions {
    code
    args {
      name
      value
    }
  }
}
`

const queryActiveOrder = `
query ActiveOrder {
  activeOrder {
` + orderFields + `
  }
}
`

const mutationApplyCoupon = `
mutation ApplyCouponCode($couponCode: String!) {
  applyCouponCode(couponCode: $couponCode) {
    __typename
    ... on Order {
` + orderFields + `
    }
    ... on ErrorResult {
      errorCode
      message
    }
  }
}
`

const mutationRemoveCoupon = `
mutation RemoveCouponCode($couponCode: String!) {
  removeCouponCode(couponCode: $couponCode) {
    __typename
    ... on Order {
` + orderFields + `
    }
    ... on ErrorResult {
      errorCode
      message
    }
  }
}
`

const mutationApplyPoints = `
mutation ApplyLoyaltyPoints($orderId: ID!, $amount: Int!) {
  applyLoyaltyPoints(orderId: $orderId, amount: $amount) {
    success
    errorCode
    message
  }
}
`

const mutationRemovePoints = `
mutation RemoveLoyaltyPoints($orderId: ID!) {
  removeLoyaltyPoints(orderId: $orderId) {
    success
    errorCode
    message
  }
}
`

const mutationSetInstructions = `
mutation SetOrderInstructions($orderId: ID!, $instructions: String!) {
  setOrderInstructions(orderId: $orderId, instructions: $instructions) {
    success
    errorCode
    message
  }
}
`

const queryLoyaltyBalance = `
query LoyaltyBalance {
  activeCustomer {
    loyaltyPoints
  }
}
`
